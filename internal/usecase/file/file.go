// Package file keeps the active text or PDF file and answers text queries against it.
package file

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"unicode/utf8"

	"browser-keywords/internal/application/port/output"
	"browser-keywords/internal/domain/failure"
	"browser-keywords/internal/domain/substring"

	"github.com/ledongthuc/pdf"
)

type active struct {
	path    string
	content string
}

type Files struct {
	paths   Paths
	logger  output.LoggerPort
	current *active
}

func New(paths Paths, logger output.LoggerPort) *Files {
	return &Files{paths: paths, logger: logger}
}

func (f *Files) Active() bool {
	return f.current != nil
}

// Path is the location of the active file.
func (f *Files) Path() (string, error) {
	c, err := f.active()
	if err != nil {
		return "", err
	}
	return c.path, nil
}

func (f *Files) active() (*active, error) {
	if f.current == nil {
		return nil, failure.New(failure.KindInstanceDoesNotExist, "File has not been defined with UseFile or UsePdf keyword")
	}
	return f.current, nil
}

// UseFile loads a UTF-8 text file as the active file.
func (f *Files) UseFile(name string) error {
	path, err := f.paths.Resolve(name)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return failure.Wrap(failure.KindFileNotFound, err, "File not found")
	}
	if len(data) == 0 {
		return failure.Mismatch("Text not found. Seems that the file is empty.")
	}
	if !utf8.Valid(data) {
		return failure.Invalid("File %s is not UTF-8 text", path)
	}
	f.set(path, string(data))
	return nil
}

// UsePdf extracts the text of every page and makes it the active file.
func (f *Files) UsePdf(name string) error {
	path, err := f.paths.Resolve(name)
	if err != nil {
		return err
	}
	text, err := pdfText(path)
	if err != nil {
		return err
	}
	if text == "" {
		return failure.Mismatch("Text not found. Seems that the pdf is empty.")
	}
	f.set(path, text)
	return nil
}

func (f *Files) set(path, content string) {
	f.current = &active{path: path, content: content}
	f.logger.Debug("Active file set", "path", path, "chars", utf8.RuneCountInString(content))
}

func pdfText(path string) (text string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = failure.New(failure.KindFileNotFound, "File found, but it's not valid pdf-file: %v", r)
		}
	}()
	fh, r, err := pdf.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", failure.Wrap(failure.KindFileNotFound, err, "File not found")
		}
		return "", failure.Wrap(failure.KindFileNotFound, err, "File found, but it's not valid pdf-file")
	}
	defer fh.Close()

	var buf bytes.Buffer
	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			return "", failure.Wrap(failure.KindFileNotFound, err, "Could not read page %d of %s", i, path)
		}
		buf.WriteString(strings.TrimSpace(content))
	}
	return buf.String(), nil
}

func normalize(text string) string {
	return strings.Join(strings.Fields(strings.ReplaceAll(text, "\n", " ")), " ")
}

func (f *Files) contains(text string, normalized bool) (bool, error) {
	c, err := f.active()
	if err != nil {
		return false, err
	}
	content := c.content
	if normalized {
		content = normalize(content)
	}
	return strings.Contains(content, text), nil
}

// Verify fails unless the active file contains text. With normalized, newlines and
// repeated whitespace count as one space.
func (f *Files) Verify(text string, normalized bool) error {
	ok, err := f.contains(text, normalized)
	if err != nil {
		return err
	}
	if !ok {
		return failure.Mismatch(`File did not contain the text "%s"`, text)
	}
	return nil
}

func (f *Files) VerifyNo(text string, normalized bool) error {
	ok, err := f.contains(text, normalized)
	if err != nil {
		return err
	}
	if ok {
		return failure.New(failure.KindUnexpectedCondition, "Text %s exists in file", text)
	}
	return nil
}

// Text returns the active file content cut by o.
func (f *Files) Text(o substring.Options) (string, error) {
	c, err := f.active()
	if err != nil {
		return "", err
	}
	if o.IsZero() {
		return c.content, nil
	}
	return substring.Cut(c.content, o)
}

// Index returns the character position of text. Without includeText the position
// after it is returned.
func (f *Files) Index(text string, includeText bool) (int, error) {
	c, err := f.active()
	if err != nil {
		return 0, err
	}
	i := strings.Index(c.content, text)
	if i < 0 {
		return 0, failure.Mismatch(`File did not contain the text "%s"`, text)
	}
	n := utf8.RuneCountInString(c.content[:i])
	if !includeText {
		n += utf8.RuneCountInString(text)
	}
	return n, nil
}

// Remove deletes path, or the active file when path is empty. Removing the active
// file clears it.
func (f *Files) Remove(path string) error {
	if path == "" {
		c, err := f.active()
		if err != nil {
			return err
		}
		path = c.path
	}
	if err := os.Remove(path); err != nil {
		if os.IsNotExist(err) {
			return failure.Wrap(failure.KindFileNotFound, err, "Could not remove %s", path)
		}
		return fmt.Errorf("remove %s: %w", path, err)
	}
	if f.current != nil && f.current.path == path {
		f.current = nil
	}
	f.logger.Info("File removed", "path", path)
	return nil
}
