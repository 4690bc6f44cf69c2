package fallback

import (
	"strings"

	"resume-manager/resume/model"
)

type rubricItem struct {
	points     int
	ats        bool
	passes     func(model.Content) bool
	strength   string
	area       string
	suggestion string
}

// rubric points sum to 100.
var rubric = []rubricItem{
	{
		points:     10,
		ats:        true,
		passes:     func(c model.Content) bool { return c.PersonalInfo.Name != "" },
		strength:   "Candidate name is clearly stated",
		area:       "Missing candidate name",
		suggestion: "Put your full name at the top of the resume",
	},
	{
		points: 10,
		ats:    true,
		passes: func(c model.Content) bool {
			return c.PersonalInfo.Email != "" || c.PersonalInfo.Phone != ""
		},
		strength:   "Contact details are present",
		area:       "No email or phone number",
		suggestion: "Add an email address and phone number recruiters can reach",
	},
	{
		points:     15,
		ats:        true,
		passes:     func(c model.Content) bool { return len(strings.Fields(c.Summary)) >= 15 },
		strength:   "Professional summary gives useful context",
		area:       "Summary is missing or too short",
		suggestion: "Write a two to three sentence summary focused on your target role",
	},
	{
		points:     20,
		ats:        true,
		passes:     func(c model.Content) bool { return len(c.WorkExperience) > 0 },
		strength:   "Work experience section is present",
		area:       "No work experience listed",
		suggestion: "List recent positions with company, title and dates",
	},
	{
		points:     15,
		passes:     describesImpact,
		strength:   "Experience entries describe responsibilities or achievements",
		area:       "Experience entries lack detail",
		suggestion: "Add bullet points with measurable results for each position",
	},
	{
		points:     10,
		ats:        true,
		passes:     func(c model.Content) bool { return len(c.Education) > 0 },
		strength:   "Education history is included",
		area:       "Education section is empty",
		suggestion: "Include degrees or relevant courses with institutions",
	},
	{
		points:     15,
		ats:        true,
		passes:     func(c model.Content) bool { return c.Skills.Count() >= 5 },
		strength:   "Skills section covers a good range of keywords",
		area:       "Few skills listed",
		suggestion: "Group at least five relevant skills by category to match job postings",
	},
	{
		points:     5,
		passes:     func(c model.Content) bool { return len(c.Certifications) > 0 },
		strength:   "Certifications strengthen credibility",
		area:       "No certifications listed",
		suggestion: "Add certifications relevant to the roles you target",
	},
}

func describesImpact(c model.Content) bool {
	if len(c.WorkExperience) == 0 {
		return false
	}
	for _, job := range c.WorkExperience {
		if len(job.Responsibilities)+len(job.Achievements) == 0 {
			return false
		}
	}
	return true
}

// Analysis scores content against a fixed completeness rubric.
func Analysis(c model.Content) model.AnalysisResult {
	res := model.AnalysisResult{
		Strengths:           []string{},
		AreasForImprovement: []string{},
		Suggestions:         []string{},
	}
	var atsTotal, atsEarned int
	for _, item := range rubric {
		ok := item.passes(c)
		if item.ats {
			atsTotal += item.points
		}
		if ok {
			res.OverallScore += item.points
			res.Strengths = append(res.Strengths, item.strength)
			if item.ats {
				atsEarned += item.points
			}
			continue
		}
		res.AreasForImprovement = append(res.AreasForImprovement, item.area)
		res.Suggestions = append(res.Suggestions, item.suggestion)
	}

	res.ATSCompatibility.Score = atsEarned * 100 / atsTotal
	switch {
	case res.ATSCompatibility.Score >= 80:
		res.ATSCompatibility.Comments = "Standard sections are present and should parse cleanly in applicant tracking systems."
	case res.ATSCompatibility.Score >= 50:
		res.ATSCompatibility.Comments = "Some standard sections are missing; applicant tracking systems may rank this resume lower."
	default:
		res.ATSCompatibility.Comments = "Most standard sections are missing; applicant tracking systems are unlikely to parse this resume well."
	}
	return res.Normalize()
}
