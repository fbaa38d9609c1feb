package entities

// Article is an educational article. Content is an HTML fragment.
type Article struct {
	ID         int64    `yaml:"id"`
	Title      string   `yaml:"title"`
	Category   string   `yaml:"category"`
	Difficulty string   `yaml:"difficulty"`
	ReadTime   int      `yaml:"read_time"` // minutes
	Content    string   `yaml:"content"`
	Tips       []string `yaml:"tips"`
	Warnings   []string `yaml:"warnings"`
}
