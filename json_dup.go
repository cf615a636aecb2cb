package njson

import (
	"io"

	eng "github.com/velaware/njson/internal/engine"
)

// DetectJSONDuplicateKeysBytes reports duplicate object keys in a JSON byte
// slice without building a DOM (spec §3's "duplicate keys ... disallowed"
// invariant, surfaced independently of a full parse).
func DetectJSONDuplicateKeysBytes(data []byte, strict Strictness, maxIssues int) (Issues, error) {
	mode := toEngineDup(strict.OnDuplicateKey)
	si, err := eng.DetectJSONDuplicateKeysBytes(data, mode, maxIssues)
	if err != nil {
		return nil, err
	}
	return fromEngineIssues(si), nil
}

// DetectJSONDuplicateKeysReader is the io.Reader counterpart of
// DetectJSONDuplicateKeysBytes. It consumes the reader fully.
func DetectJSONDuplicateKeysReader(r io.Reader, strict Strictness, maxIssues int) (Issues, error) {
	mode := toEngineDup(strict.OnDuplicateKey)
	si, err := eng.DetectJSONDuplicateKeysReader(r, mode, maxIssues)
	if err != nil {
		return nil, err
	}
	return fromEngineIssues(si), nil
}

func fromEngineIssues(si []eng.SimpleIssue) Issues {
	var iss Issues
	for _, s := range si {
		iss = AppendIssues(iss, Issue{Code: s.Code, Path: s.Path, Class: ClassValidation, Message: s.Message})
	}
	return iss
}
