package valueobject

import "fmt"

// BatchSource records which ingestion path produced an evaluation batch.
type BatchSource struct {
	value string
}

var (
	SourceUpload = BatchSource{value: "upload"}
	SourceManual = BatchSource{value: "manual"}
	SourceStream = BatchSource{value: "stream"}
)

// BatchSourceFromString reconstructs a BatchSource from its string representation.
func BatchSourceFromString(s string) (BatchSource, error) {
	switch s {
	case "upload":
		return SourceUpload, nil
	case "manual":
		return SourceManual, nil
	case "stream":
		return SourceStream, nil
	default:
		return BatchSource{}, fmt.Errorf("invalid batch source: %q", s)
	}
}

func (s BatchSource) String() string              { return s.value }
func (s BatchSource) IsZero() bool                { return s.value == "" }
func (s BatchSource) Equal(other BatchSource) bool { return s.value == other.value }
