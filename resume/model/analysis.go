package model

import "strings"

// AnalysisResult is the assessment of one resume.
type AnalysisResult struct {
	OverallScore        int              `json:"overall_score"`
	Strengths           []string         `json:"strengths"`
	AreasForImprovement []string         `json:"areas_for_improvement"`
	Suggestions         []string         `json:"suggestions"`
	ATSCompatibility    ATSCompatibility `json:"ats_compatibility"`
}

// ATSCompatibility rates how well applicant tracking systems read the resume.
type ATSCompatibility struct {
	Score    int    `json:"score"`
	Comments string `json:"comments"`
}

// Normalize clamps scores into [0,100] and replaces nil lists with empty ones.
func (a AnalysisResult) Normalize() AnalysisResult {
	a.OverallScore = ClampScore(a.OverallScore)
	a.ATSCompatibility.Score = ClampScore(a.ATSCompatibility.Score)
	a.ATSCompatibility.Comments = strings.TrimSpace(a.ATSCompatibility.Comments)
	a.Strengths = nonNil(a.Strengths)
	a.AreasForImprovement = nonNil(a.AreasForImprovement)
	a.Suggestions = nonNil(a.Suggestions)
	return a
}

// ClampScore bounds a score to [0,100].
func ClampScore(v int) int {
	switch {
	case v < 0:
		return 0
	case v > 100:
		return 100
	default:
		return v
	}
}

// JobSuggestion is one recommended role.
type JobSuggestion struct {
	JobTitle           string   `json:"job_title"`
	RequiredSkills     []string `json:"required_skills"`
	SkillsToDevelop    []string `json:"skills_to_develop"`
	PotentialCompanies []string `json:"potential_companies"`
	SalaryRange        string   `json:"salary_range"`
}

func nonNil(in []string) []string {
	if in == nil {
		return []string{}
	}
	return in
}
