package fallback

import (
	"strings"

	"resume-manager/resume/model"
)

// ContentString flattens content into one space-joined string for job
// matching. Absent sections are skipped.
func ContentString(c model.Content) string {
	var parts []string

	name, title := c.PersonalInfo.Name, c.PersonalInfo.Title
	if name != "" || title != "" {
		parts = append(parts, name+" - "+title)
	}
	if c.Summary != "" {
		parts = append(parts, c.Summary)
	}
	for _, job := range c.WorkExperience {
		parts = append(parts, job.Position+" at "+job.Company)
		for _, resp := range job.Responsibilities {
			if resp != "" {
				parts = append(parts, "● "+resp)
			}
		}
	}
	for _, group := range c.Skills {
		parts = append(parts, model.CategoryTitle(group.Category)+": "+strings.Join(group.Items, ", "))
	}
	for _, edu := range c.Education {
		parts = append(parts, edu.Degree+" from "+edu.Institution)
	}
	return strings.Join(parts, " ")
}
