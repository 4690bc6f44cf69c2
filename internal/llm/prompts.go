package llm

import (
	"fmt"
	"strings"
)

const (
	systemParser     = "You are a resume parser. You convert raw resume text into structured JSON and never invent facts that are not in the text."
	systemAnalyst    = "You are an expert resume reviewer and career coach who evaluates resumes for content quality and ATS compatibility."
	systemAdvisor    = "You are a career advisor specializing in job recommendations."
	systemKeywords   = "You are an AI assistant that extracts relevant keywords from resumes for job matching."
	systemWriter     = "You are an expert resume writer with years of experience helping job seekers create compelling, ATS-friendly resumes. You turn basic content into achievement-focused bullets that emphasize results and skills."
	systemSummarizer = "You condense structured resume JSON into a single plain-text string used for job matching."
)

const contentSchema = `{
  "personal_info": {"name": "", "title": "", "email": "", "phone": "", "linkedin": "", "location": "", "website": ""},
  "summary": "",
  "education": [{"institution": "", "degree": "", "field_of_study": "", "date_range": "", "gpa": ""}],
  "work_experience": [{"company": "", "position": "", "location": "", "date_range": "", "responsibilities": [""], "achievements": [""]}],
  "skills": {"technical": [""], "soft": [""], "languages": [""], "tools": [""]},
  "certifications": [""]
}`

func extractPrompt(text string) string {
	return fmt.Sprintf(`Extract the resume below into a JSON object with exactly this shape:
%s

Use empty strings or empty arrays for anything the resume does not mention.

Resume text:
%s`, contentSchema, text)
}

func analyzePrompt(content string) string {
	return fmt.Sprintf(`Analyze the following parsed resume. Return a JSON object with:
- "overall_score": integer from 0 to 100
- "strengths": array of strings
- "areas_for_improvement": array of strings
- "suggestions": array of concrete, actionable strings
- "ats_compatibility": {"score": integer from 0 to 100, "comments": string}

Parsed resume:
%s`, content)
}

func suggestJobsPrompt(content, analysis string) string {
	return fmt.Sprintf(`Based on the following parsed resume and its analysis, suggest 5 specific job positions that would be a good fit for this candidate.
Return a JSON object {"job_suggestions": [...]} where each entry has:
- "job_title": string
- "required_skills": skills the candidate already has
- "skills_to_develop": skills they might need to develop
- "potential_companies": companies that hire for this role
- "salary_range": estimated salary range as a string

Parsed resume:
%s

Analysis:
%s`, content, analysis)
}

func keywordsPrompt(content string) string {
	return fmt.Sprintf(`Extract relevant keywords from the following resume content that would be useful for job matching.
Focus on technical skills, industry-specific skills, soft skills, educational qualifications, certifications and key achievements.

Return ONLY a JSON object with a single key "keywords" containing an array of strings.
Each keyword should be a single word or short phrase of at most 3 words.

Resume content:
%s`, content)
}

func optimizePrompt(in OptimizeInput, body string) string {
	var b strings.Builder
	if title := strings.TrimSpace(in.JobTitle); title != "" {
		fmt.Fprintf(&b, "Job Target: %s\n", title)
	}
	if in.ItemIndex != nil {
		fmt.Fprintf(&b, "This is a bullet point in the %s section of a resume.\n", in.SectionKey)
	} else {
		fmt.Fprintf(&b, "This is the %s section of a resume.\n", in.SectionKey)
	}
	fmt.Fprintf(&b, `
Original content:
%q

Rewrite this content to be more impactful, professional and ATS-friendly: use strong action verbs, quantify achievements where possible, highlight relevant skills and stay concise.
Do not start your response with bullet markers such as "- " or "• ".
Respond with the optimized content only.`, body)
	return b.String()
}

func summarizePrompt(content string) string {
	return fmt.Sprintf(`Extract all important information from the resume below (experience, skills, education, projects) into one text string formatted as:
"[Position/Role] [Description] ● [Achievement 1] ● [Achievement 2] ● ..."

Keep every technical keyword, metric and key skill. Return only the resulting text.

Resume content:
%s`, content)
}
