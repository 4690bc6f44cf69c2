package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Content is the structured form of a parsed resume.
type Content struct {
	PersonalInfo   PersonalInfo `json:"personal_info"`
	Summary        string       `json:"summary"`
	Education      []Education  `json:"education"`
	WorkExperience []Experience `json:"work_experience"`
	Skills         Skills       `json:"skills"`
	Certifications []string     `json:"certifications"`
}

// PersonalInfo holds identity and contact details.
type PersonalInfo struct {
	Name     string `json:"name"`
	Title    string `json:"title,omitempty"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	LinkedIn string `json:"linkedin"`
	Location string `json:"location"`
	Website  string `json:"website,omitempty"`
}

// Education is one degree or course of study.
type Education struct {
	Institution  string `json:"institution"`
	Degree       string `json:"degree"`
	FieldOfStudy string `json:"field_of_study"`
	DateRange    string `json:"date_range"`
	GPA          string `json:"gpa"`
}

// Experience is one position held.
type Experience struct {
	Company          string   `json:"company"`
	Position         string   `json:"position"`
	Location         string   `json:"location,omitempty"`
	DateRange        string   `json:"date_range"`
	Responsibilities []string `json:"responsibilities"`
	Achievements     []string `json:"achievements"`
}

// IsEmpty reports whether no section carries any data.
func (c Content) IsEmpty() bool {
	return c.PersonalInfo == (PersonalInfo{}) &&
		strings.TrimSpace(c.Summary) == "" &&
		len(c.Education) == 0 &&
		len(c.WorkExperience) == 0 &&
		c.Skills.Count() == 0 &&
		len(c.Certifications) == 0
}

// Indented returns the content as indented JSON, the form handed to prompts
// and keyword matching.
func (c Content) Indented() string {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return ""
	}
	return string(data)
}

// Clone returns a deep copy.
func (c Content) Clone() Content {
	out := c
	out.Education = append([]Education(nil), c.Education...)
	out.WorkExperience = make([]Experience, 0, len(c.WorkExperience))
	for _, exp := range c.WorkExperience {
		exp.Responsibilities = append([]string(nil), exp.Responsibilities...)
		exp.Achievements = append([]string(nil), exp.Achievements...)
		out.WorkExperience = append(out.WorkExperience, exp)
	}
	if c.WorkExperience == nil {
		out.WorkExperience = nil
	}
	out.Skills = make(Skills, 0, len(c.Skills))
	for _, g := range c.Skills {
		out.Skills = append(out.Skills, SkillGroup{Category: g.Category, Items: append([]string(nil), g.Items...)})
	}
	if c.Skills == nil {
		out.Skills = nil
	}
	out.Certifications = append([]string(nil), c.Certifications...)
	return out
}

type contentJSON Content

// MarshalJSON emits empty arrays rather than null for absent sections.
func (c Content) MarshalJSON() ([]byte, error) {
	out := contentJSON(c)
	if out.Education == nil {
		out.Education = []Education{}
	}
	out.WorkExperience = append([]Experience{}, c.WorkExperience...)
	for i := range out.WorkExperience {
		if out.WorkExperience[i].Responsibilities == nil {
			out.WorkExperience[i].Responsibilities = []string{}
		}
		if out.WorkExperience[i].Achievements == nil {
			out.WorkExperience[i].Achievements = []string{}
		}
	}
	if out.Skills == nil {
		out.Skills = Skills{}
	}
	if out.Certifications == nil {
		out.Certifications = []string{}
	}
	return json.Marshal(out)
}

// UnmarshalJSON decodes leniently: a section with an unexpected shape is
// left empty instead of failing the payload. "experience" is accepted as an
// alias of "work_experience".
func (c *Content) UnmarshalJSON(data []byte) error {
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("resume content must be a JSON object: %w", err)
	}

	var out Content
	if v, ok := raw["personal_info"]; ok {
		fields := looseObject(v)
		out.PersonalInfo = PersonalInfo{
			Name:     looseString(fields["name"]),
			Title:    looseString(fields["title"]),
			Email:    looseString(fields["email"]),
			Phone:    looseString(fields["phone"]),
			LinkedIn: looseString(fields["linkedin"]),
			Location: looseString(fields["location"]),
			Website:  looseString(fields["website"]),
		}
	}
	out.Summary = looseString(raw["summary"])

	for _, item := range looseArray(raw["education"]) {
		fields := looseObject(item)
		if fields == nil {
			continue
		}
		out.Education = append(out.Education, Education{
			Institution:  looseString(fields["institution"]),
			Degree:       looseString(fields["degree"]),
			FieldOfStudy: looseString(fields["field_of_study"]),
			DateRange:    looseString(fields["date_range"]),
			GPA:          looseString(fields["gpa"]),
		})
	}

	experience, ok := raw["work_experience"]
	if !ok {
		experience = raw["experience"]
	}
	for _, item := range looseArray(experience) {
		fields := looseObject(item)
		if fields == nil {
			continue
		}
		out.WorkExperience = append(out.WorkExperience, Experience{
			Company:          looseString(fields["company"]),
			Position:         looseString(fields["position"]),
			Location:         looseString(fields["location"]),
			DateRange:        looseString(fields["date_range"]),
			Responsibilities: looseStrings(fields["responsibilities"]),
			Achievements:     looseStrings(fields["achievements"]),
		})
	}

	if v, ok := raw["skills"]; ok {
		var skills Skills
		if err := json.Unmarshal(v, &skills); err == nil {
			out.Skills = skills
		}
	}
	out.Certifications = looseStrings(raw["certifications"])

	*c = out
	return nil
}

// SkillGroup is one named category of skills.
type SkillGroup struct {
	Category string
	Items    []string
}

// Skills keeps skill categories in the order they were supplied.
type Skills []SkillGroup

// Count returns the number of skills across all categories.
func (s Skills) Count() int {
	n := 0
	for _, g := range s {
		n += len(g.Items)
	}
	return n
}

// Get returns the items for category, or nil.
func (s Skills) Get(category string) []string {
	for _, g := range s {
		if g.Category == category {
			return g.Items
		}
	}
	return nil
}

// MarshalJSON writes an object whose keys keep category order.
func (s Skills) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, g := range s {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(g.Category)
		if err != nil {
			return nil, err
		}
		items := g.Items
		if items == nil {
			items = []string{}
		}
		val, err := json.Marshal(items)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON accepts an object of category to list-or-string, or a bare
// list which becomes the "technical" category.
func (s *Skills) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		*s = nil
		return nil
	}
	if trimmed[0] == '[' {
		*s = Skills{{Category: "technical", Items: looseStrings(trimmed)}}
		return nil
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("skills must be an object")
	}
	var out Skills
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		key, _ := keyTok.(string)
		var value json.RawMessage
		if err := dec.Decode(&value); err != nil {
			return err
		}
		out = append(out, SkillGroup{Category: key, Items: looseStrings(value)})
	}
	*s = out
	return nil
}

// CategoryTitle turns a category key such as "technical_skills" into
// "Technical Skills".
func CategoryTitle(category string) string {
	return cases.Title(language.English).String(strings.ReplaceAll(category, "_", " "))
}

func looseObject(raw json.RawMessage) map[string]json.RawMessage {
	var out map[string]json.RawMessage
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	return out
}

func looseArray(raw json.RawMessage) []json.RawMessage {
	var out []json.RawMessage
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil
	}
	return out
}

// looseString accepts strings and numbers; anything else is empty.
func looseString(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return strings.TrimSpace(s)
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err == nil {
		return n.String()
	}
	var b bool
	if err := json.Unmarshal(raw, &b); err == nil {
		return strconv.FormatBool(b)
	}
	return ""
}

// looseStrings accepts a list of scalars or a single string.
func looseStrings(raw json.RawMessage) []string {
	if len(raw) == 0 {
		return nil
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		if s := looseString(raw); s != "" {
			return []string{s}
		}
		return nil
	}
	var out []string
	for _, item := range items {
		if s := looseString(item); s != "" {
			out = append(out, s)
		}
	}
	return out
}
