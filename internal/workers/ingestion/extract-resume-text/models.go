// internal/workers/ingestion/extract-resume-text/models.go
package extractresumetext

type Input struct {
	Bucket      string `json:"bucket,omitempty"`
	Key         string `json:"key"`
	ContentType string `json:"contentType,omitempty"`
}

type Output struct {
	ResumeText  string `json:"resumeText"`
	ContentType string `json:"contentType"`
	CharCount   int    `json:"charCount"`
}
