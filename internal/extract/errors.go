package extract

import "fmt"

// OpenError reports a document that could not be read at all.
type OpenError struct {
	Path string
	Err  error
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("could not open PDF %s: %v", e.Path, e.Err)
}

func (e *OpenError) Unwrap() error { return e.Err }

// EncryptedError reports a password-protected document.
type EncryptedError struct {
	Path string
}

func (e *EncryptedError) Error() string {
	return "PDF is password-protected. Cannot extract text."
}

// NoTextError reports a document where every page came back empty, such as
// a pure image scan.
type NoTextError struct {
	Path string
}

func (e *NoTextError) Error() string {
	return "PDF contains no extractable text."
}
