package entity

type Screenshot struct {
	Data   []byte
	Format string
	Width  int
	Height int
}

// FailureReport is what the host writes when a keyword fails.
type FailureReport struct {
	Keyword    KeywordName
	Error      string
	URL        string
	Title      string
	Source     string
	Screenshot *Screenshot
}
