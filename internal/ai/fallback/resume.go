package fallback

import (
	"context"
	"regexp"
	"strconv"
	"strings"

	"github.com/spigell/jobswap/internal/ai"
)

const (
	defaultJobTitle        = "Software Engineer"
	defaultYearsExperience = 3
)

var (
	jobTitlePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?:senior|junior|lead|principal)?\s*(?:software|full.?stack|front.?end|back.?end|devops|data|machine learning|ml|ai)?\s*(?:engineer|developer|architect|scientist|analyst)`),
		regexp.MustCompile(`(?:product|project|engineering|technical)?\s*(?:manager|lead|director)`),
	}

	experiencePattern = regexp.MustCompile(`(\d+)\+?\s*(?:years?|yrs?)\s*(?:of\s*)?experience`)

	certificationPatterns = []*regexp.Regexp{
		regexp.MustCompile(`aws\s*(?:certified|certification)`),
		regexp.MustCompile(`google\s*cloud\s*(?:certified|certification)`),
		regexp.MustCompile(`azure\s*(?:certified|certification)`),
		regexp.MustCompile(`pmp|cissp|scrum\s*master`),
	}

	knownSkills = []string{
		"React", "TypeScript", "JavaScript", "Node.js", "Python", "Java",
		"AWS", "Docker", "Kubernetes", "PostgreSQL", "MongoDB", "GraphQL",
		"Vue.js", "Angular", "Next.js", "Express", "Django", "Flask",
		"Git", "CI/CD", "Microservices", "REST API", "Agile", "Scrum",
	}

	knownTools = []string{
		"VS Code", "GitHub", "Jira", "Confluence", "Slack", "Figma",
		"Postman", "Jenkins", "Terraform", "Ansible", "Elasticsearch",
		"Redis", "Kafka", "RabbitMQ", "Splunk", "Datadog",
	}

	defaultSkills = []string{"React", "TypeScript", "Node.js"}
	defaultTools  = []string{"Git", "VS Code"}
)

// KeywordParser extracts a resume profile with regular expressions and fixed vocabularies.
type KeywordParser struct{}

// NewKeywordParser returns the fallback resume parser.
func NewKeywordParser() KeywordParser {
	return KeywordParser{}
}

// ParseResume implements ai.ResumeParser. It never fails.
func (KeywordParser) ParseResume(_ context.Context, text string) (*ai.ParsedResume, error) {
	return Parse(text), nil
}

// Parse is the pure keyword extraction; the same text always yields the same profile.
func Parse(resume string) *ai.ParsedResume {
	text := strings.ToLower(resume)

	skills := matchVocabulary(text, knownSkills)
	if len(skills) == 0 {
		skills = append([]string(nil), defaultSkills...)
	}

	tools := matchVocabulary(text, knownTools)
	if len(tools) == 0 {
		tools = append([]string(nil), defaultTools...)
	}

	return &ai.ParsedResume{
		JobTitle:        jobTitle(text),
		Skills:          skills,
		Tools:           tools,
		YearsExperience: yearsExperience(text),
		Certifications:  certifications(text),
		Education:       []string{"Bachelor's Degree"},
		Languages:       []string{"English"},
		Source:          ai.SourceFallback,
	}
}

func jobTitle(text string) string {
	for _, pattern := range jobTitlePatterns {
		if match := strings.TrimSpace(pattern.FindString(text)); match != "" {
			return match
		}
	}
	return defaultJobTitle
}

func matchVocabulary(text string, vocabulary []string) []string {
	found := make([]string, 0)
	for _, term := range vocabulary {
		if strings.Contains(text, strings.ToLower(term)) {
			found = append(found, term)
		}
	}
	return found
}

func yearsExperience(text string) int {
	match := experiencePattern.FindStringSubmatch(text)
	if match == nil {
		return defaultYearsExperience
	}

	years, err := strconv.Atoi(match[1])
	if err != nil {
		return defaultYearsExperience
	}
	return years
}

func certifications(text string) []string {
	found := make([]string, 0)
	for _, pattern := range certificationPatterns {
		if match := pattern.FindString(text); match != "" {
			found = append(found, strings.TrimSpace(match))
		}
	}
	return found
}
