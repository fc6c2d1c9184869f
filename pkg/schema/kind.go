package schema

// SectionKind is the closed set of layouts the resume renderer knows about.
type SectionKind int

const (
	KindGeneric SectionKind = iota
	KindPersonal
	KindSummary
	KindExperience
	KindEducation
	KindSkills
	KindProjects
	KindCertification
)

var kindNames = map[SectionKind]string{
	KindGeneric:       "generic",
	KindPersonal:      "personal",
	KindSummary:       "summary",
	KindExperience:    "experience",
	KindEducation:     "education",
	KindSkills:        "skills",
	KindProjects:      "projects",
	KindCertification: "certification",
}

func (k SectionKind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return "generic"
}

// ResolveKind maps a section id onto its layout kind.
func ResolveKind(sectionID string) SectionKind {
	switch sectionID {
	case "personal":
		return KindPersonal
	case "summary", "objective", "about":
		return KindSummary
	case "experience":
		return KindExperience
	case "education":
		return KindEducation
	case "skills":
		return KindSkills
	case "projects", "portfolio":
		return KindProjects
	case "certifications":
		return KindCertification
	default:
		return KindGeneric
	}
}

var displayNames = map[string]string{
	"summary":        "Professional Summary",
	"objective":      "Objective",
	"about":          "About Me",
	"experience":     "Experience",
	"education":      "Education",
	"skills":         "Skills",
	"projects":       "Projects",
	"portfolio":      "Portfolio",
	"certifications": "Certifications",
}

// DisplayName returns the heading used in rendered resumes. Recognised ids use
// a fixed table; others fall back to the schema name.
func (s *SectionSchema) DisplayName() string {
	if s == nil {
		return ""
	}
	if name, ok := displayNames[s.ID]; ok {
		return name
	}
	return s.Name
}

// ResolveKinds fills the Kind of every section from its id without any
// other validation. Normalize calls it; it is exported for callers holding
// templates that bypassed loading.
func ResolveKinds(t *Template) {
	if t == nil {
		return
	}
	for i := range t.Sections {
		t.Sections[i].Kind = ResolveKind(t.Sections[i].ID)
	}
}
