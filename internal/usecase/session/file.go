package session

import (
	"context"

	"browser-keywords/internal/domain/substring"
)

// UseFile loads a text file, looked up by name in the download and project folders,
// as the active file.
func (s *Session) UseFile(ctx context.Context, name string) error {
	return s.run(ctx, "UseFile", func(context.Context) error {
		return s.files.UseFile(name)
	})
}

func (s *Session) UsePdf(ctx context.Context, name string) error {
	return s.run(ctx, "UsePdf", func(context.Context) error {
		return s.files.UsePdf(name)
	})
}

// VerifyFileText checks the active file for text. With normalized, line breaks and
// repeated whitespace in the file count as single spaces.
func (s *Session) VerifyFileText(ctx context.Context, text string, normalized bool) error {
	return s.run(ctx, "VerifyFileText", func(context.Context) error {
		return s.files.Verify(text, normalized)
	})
}

func (s *Session) VerifyNoFileText(ctx context.Context, text string, normalized bool) error {
	return s.run(ctx, "VerifyNoFileText", func(context.Context) error {
		return s.files.VerifyNo(text, normalized)
	})
}

func (s *Session) GetFileText(ctx context.Context, cut substring.Options) (string, error) {
	return keyword(ctx, s, "GetFileText", func(context.Context) (string, error) {
		return s.files.Text(cut)
	})
}

// GetFileTextIndex returns the character position of text in the active file, or
// the position after it unless includeText is set.
func (s *Session) GetFileTextIndex(ctx context.Context, text string, includeText bool) (int, error) {
	return keyword(ctx, s, "GetFileTextIndex", func(context.Context) (int, error) {
		return s.files.Index(text, includeText)
	})
}

// RemoveFile deletes path, or the active file when path is empty.
func (s *Session) RemoveFile(ctx context.Context, path string) error {
	return s.run(ctx, "RemoveFile", func(context.Context) error {
		return s.files.Remove(path)
	})
}
