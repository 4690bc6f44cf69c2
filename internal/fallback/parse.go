package fallback

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"resume-manager/resume/model"
)

const (
	maxNameLen    = 60
	maxSummaryLen = 2000
)

var (
	emailRe    = regexp.MustCompile(`[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}`)
	phoneRe    = regexp.MustCompile(`\+?\d[\d ().\-]{7,}\d`)
	linkedinRe = regexp.MustCompile(`(?i)(?:https?://)?(?:www\.)?linkedin\.com/in/[A-Za-z0-9_\-]+/?`)
)

// ParseText builds best-effort structured content from extracted PDF text
// when no model is available. Empty text yields empty content.
func ParseText(text string) model.Content {
	text = strings.TrimSpace(text)
	if text == "" {
		return model.Content{}
	}

	var c model.Content
	c.PersonalInfo.Email = emailRe.FindString(text)
	c.PersonalInfo.LinkedIn = linkedinRe.FindString(text)
	if phone := phoneRe.FindString(text); phone != "" {
		c.PersonalInfo.Phone = strings.TrimSpace(phone)
	}
	c.PersonalInfo.Name = guessName(text)
	c.Summary = truncateRunes(strings.Join(strings.Fields(text), " "), maxSummaryLen)

	lower := strings.ToLower(text)
	if tech := matchAll(lower, techKeywords); len(tech) > 0 {
		c.Skills = append(c.Skills, model.SkillGroup{Category: "technical", Items: tech})
	}
	if soft := matchAll(lower, softKeywords); len(soft) > 0 {
		c.Skills = append(c.Skills, model.SkillGroup{Category: "soft", Items: soft})
	}
	return c
}

// guessName takes the first line when it looks like a name rather than
// contact details or a paragraph.
func guessName(text string) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if utf8.RuneCountInString(line) > maxNameLen || strings.ContainsAny(line, "@:/") {
			return ""
		}
		return line
	}
	return ""
}

func truncateRunes(s string, n int) string {
	if utf8.RuneCountInString(s) <= n {
		return s
	}
	return string([]rune(s)[:n])
}
