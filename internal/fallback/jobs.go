// Package fallback produces deterministic stand-ins for the AI-backed
// resume stages. Nothing here performs I/O.
package fallback

import (
	"strings"

	"resume-manager/resume/model"
)

// JobLimit is the exact number of suggestions JobSuggestions returns.
const JobLimit = 5

type keywordJobs struct {
	keyword string
	titles  []string
}

// jobKeywords is matched in order; earlier rows win when the limit is hit.
var jobKeywords = []keywordJobs{
	{keyword: "python", titles: []string{"Python Developer", "Data Scientist", "Backend Engineer"}},
	{keyword: "javascript", titles: []string{"Frontend Developer", "Full Stack Developer", "Web Developer"}},
	{keyword: "react", titles: []string{"React Developer", "Frontend Engineer", "UI Developer"}},
	{keyword: "data", titles: []string{"Data Analyst", "Data Scientist", "Business Intelligence Analyst"}},
	{keyword: "cloud", titles: []string{"Cloud Engineer", "DevOps Engineer", "Solutions Architect"}},
	{keyword: "security", titles: []string{"Security Engineer", "Security Analyst", "Cybersecurity Specialist"}},
	{keyword: "manager", titles: []string{"Product Manager", "Project Manager", "Engineering Manager"}},
}

var defaultJobs = []model.JobSuggestion{
	{
		JobTitle:           "Software Engineer",
		RequiredSkills:     []string{"Programming", "Problem Solving", "Teamwork"},
		SkillsToDevelop:    []string{"System Design", "DevOps", "Cloud Architecture"},
		PotentialCompanies: []string{"Google", "Microsoft", "Amazon"},
		SalaryRange:        "$90,000 - $130,000",
	},
	{
		JobTitle:           "Full Stack Developer",
		RequiredSkills:     []string{"Frontend", "Backend", "Database"},
		SkillsToDevelop:    []string{"Mobile Development", "UI/UX Design", "Performance Optimization"},
		PotentialCompanies: []string{"Facebook", "Twitter", "Shopify"},
		SalaryRange:        "$85,000 - $125,000",
	},
}

func matchedJob(title string) model.JobSuggestion {
	return model.JobSuggestion{
		JobTitle:           title,
		RequiredSkills:     []string{"Programming", "Problem Solving", "Communication"},
		SkillsToDevelop:    []string{"System Design", "Leadership", "Domain Expertise"},
		PotentialCompanies: []string{"Google", "Microsoft", "Amazon", "Meta", "Apple"},
		SalaryRange:        "$90,000 - $140,000",
	}
}

// JobSuggestions returns exactly JobLimit suggestions with distinct titles.
// Titles come from keywords found in text (case-insensitive substring match),
// then the default roles, then the remaining keyword-table roles in order.
func JobSuggestions(text string) []model.JobSuggestion {
	lower := strings.ToLower(text)
	out := make([]model.JobSuggestion, 0, JobLimit)
	seen := make(map[string]struct{}, JobLimit)
	add := func(job model.JobSuggestion) {
		if len(out) >= JobLimit {
			return
		}
		if _, ok := seen[job.JobTitle]; ok {
			return
		}
		seen[job.JobTitle] = struct{}{}
		out = append(out, job)
	}

	for _, row := range jobKeywords {
		if !strings.Contains(lower, row.keyword) {
			continue
		}
		for _, title := range row.titles {
			add(matchedJob(title))
		}
	}
	for _, job := range defaultJobs {
		add(copyJob(job))
	}
	for _, row := range jobKeywords {
		for _, title := range row.titles {
			add(matchedJob(title))
		}
	}
	return out
}

func copyJob(j model.JobSuggestion) model.JobSuggestion {
	j.RequiredSkills = append([]string(nil), j.RequiredSkills...)
	j.SkillsToDevelop = append([]string(nil), j.SkillsToDevelop...)
	j.PotentialCompanies = append([]string(nil), j.PotentialCompanies...)
	return j
}
