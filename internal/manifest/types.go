package manifest

// PropertiesFile is the metadata document written at the root of every step.
const PropertiesFile = "properties.json"

// PlaceholderFile is the document written inside each language directory.
const PlaceholderFile = "README.md"

// Variant describes one way to scaffold a step.
type Variant struct {
	Name        string     `yaml:"name" json:"name"`
	Description string     `yaml:"description,omitempty" json:"description,omitempty"`
	Requires    string     `yaml:"requires,omitempty" json:"requires,omitempty"`
	Languages   []Language `yaml:"languages" json:"languages"`
	Auxiliary   []string   `yaml:"auxiliary,omitempty" json:"auxiliary,omitempty"`
}

// Language is one language directory and the literal content of its placeholder.
type Language struct {
	Code    string `yaml:"code" json:"code"`
	Content string `yaml:"content" json:"content"`
}

// LanguageCodes returns the language codes in manifest order.
func (v *Variant) LanguageCodes() []string {
	codes := make([]string, 0, len(v.Languages))
	for _, l := range v.Languages {
		codes = append(codes, l.Code)
	}
	return codes
}

// Dirs returns every subdirectory the variant creates: languages first, then
// auxiliary directories.
func (v *Variant) Dirs() []string {
	dirs := v.LanguageCodes()
	return append(dirs, v.Auxiliary...)
}

// Properties is the step metadata record. Field order is the serialized order.
type Properties struct {
	NumExercises            int    `json:"numExercises"`
	EstimatedCompletionTime int    `json:"estimatedCompletionTime"`
	Author                  string `json:"author"`
	AuthorGithubID          string `json:"authorGithubId"`
}

// NewProperties returns a fresh record with zero counters.
func NewProperties(author, authorGithubID string) Properties {
	return Properties{
		Author:         author,
		AuthorGithubID: authorGithubID,
	}
}
