package keyword

import (
	"context"

	"browser-keywords/internal/usecase/session"
)

func fileKeywords(s *session.Session) []*Keyword {
	name := []param{req("filename", "string", "file name, searched in downloads, the project dir and files/")}
	match := []param{
		req("text", "string", "text to look for"),
		opt("normalized", "boolean", "collapse whitespace before comparing"),
	}
	return []*Keyword{
		action("UseFile", "Makes a text file the active file", name, func(ctx context.Context, a Args) error {
			return s.UseFile(ctx, a.String("filename"))
		}),
		action("UsePdf", "Extracts the text of a PDF and makes it the active file", name,
			func(ctx context.Context, a Args) error {
				return s.UsePdf(ctx, a.String("filename"))
			}),
		action("VerifyFileText", "Fails unless the active file contains text", match,
			func(ctx context.Context, a Args) error {
				return s.VerifyFileText(ctx, a.String("text"), a.Bool("normalized", false))
			}),
		action("VerifyNoFileText", "Fails if the active file contains text", match,
			func(ctx context.Context, a Args) error {
				return s.VerifyNoFileText(ctx, a.String("text"), a.Bool("normalized", false))
			}),
		newKeyword("GetFileText", "Returns the text of the active file", cutParams,
			func(ctx context.Context, a Args) (any, error) {
				cut, err := a.Cut()
				if err != nil {
					return nil, err
				}
				got, err := s.GetFileText(ctx, cut)
				if err != nil {
					return nil, err
				}
				return a.convert(got)
			}),
		newKeyword("GetFileTextIndex", "Returns the index of text in the active file",
			[]param{
				req("text", "string", "text to look for"),
				opt("include_text", "boolean", "return the index where text starts instead of where it ends"),
			},
			func(ctx context.Context, a Args) (any, error) {
				return s.GetFileTextIndex(ctx, a.String("text"), a.Bool("include_text", false))
			}),
		action("RemoveFile", "Deletes a file, the active file when path is empty",
			[]param{opt("path", "string", "file to delete")},
			func(ctx context.Context, a Args) error {
				return s.RemoveFile(ctx, a.String("path"))
			}),
	}
}
