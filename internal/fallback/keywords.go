package fallback

import "strings"

var techKeywords = []string{
	"python", "javascript", "java", "c++", "c#", "ruby", "go", "php",
	"react", "angular", "vue", "node.js", "django", "flask", "spring",
	"tensorflow", "pytorch", "pandas", "numpy", "sql", "nosql", "mongodb",
	"mysql", "postgresql", "aws", "azure", "gcp", "docker", "kubernetes",
	"ci/cd", "git", "rest api", "graphql", "html", "css", "sass",
	"machine learning", "deep learning", "nlp", "data science", "data analysis",
}

var softKeywords = []string{
	"leadership", "teamwork", "communication", "problem solving",
	"critical thinking", "project management", "time management",
	"collaboration", "adaptability", "creativity", "organization",
}

// Keywords returns the technical then soft keywords that occur in text.
// Matching is a case-insensitive substring test, so short terms such as "go"
// also hit inside longer words.
func Keywords(text string) []string {
	lower := strings.ToLower(text)
	out := matchAll(lower, techKeywords)
	return append(out, matchAll(lower, softKeywords)...)
}

func matchAll(lower string, list []string) []string {
	out := []string{}
	for _, kw := range list {
		if strings.Contains(lower, kw) {
			out = append(out, kw)
		}
	}
	return out
}
