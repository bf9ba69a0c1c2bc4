package rod

import (
	"strings"

	"browser-keywords/internal/domain/entity"
	"browser-keywords/internal/domain/failure"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/input"
)

var specialKeys = map[string]input.Key{
	entity.KeyBackspace: input.Backspace,
	entity.KeyTab:       input.Tab,
	entity.KeyReturn:    input.Enter,
	entity.KeyEnter:     input.Enter,
	entity.KeyEscape:    input.Escape,
	entity.KeySpace:     input.Space,
	entity.KeyPageUp:    input.PageUp,
	entity.KeyPageDown:  input.PageDown,
	entity.KeyEnd:       input.End,
	entity.KeyHome:      input.Home,
	entity.KeyLeft:      input.ArrowLeft,
	entity.KeyUp:        input.ArrowUp,
	entity.KeyRight:     input.ArrowRight,
	entity.KeyDown:      input.ArrowDown,
	entity.KeyInsert:    input.Insert,
	entity.KeyDelete:    input.Delete,
	entity.KeyF1:        input.F1,
}

var modifierKeys = map[string]input.Key{
	entity.KeyShift:   input.ShiftLeft,
	entity.KeyControl: input.ControlLeft,
	entity.KeyAlt:     input.AltLeft,
	entity.KeyMeta:    input.MetaLeft,
}

func isSpecial(r rune) bool { return r >= 0xe000 && r <= 0xf8ff }

// typeKeys sends a WebDriver-style key sequence. Modifiers stay down until the
// null key or the end of the sequence. Plain text without modifiers is inserted
// as a whole.
func typeKeys(p *rod.Page, keys string) error {
	var (
		held  []input.Key
		plain strings.Builder
	)
	flush := func() error {
		if plain.Len() == 0 {
			return nil
		}
		defer plain.Reset()
		return p.InsertText(plain.String())
	}
	for _, r := range keys {
		s := string(r)
		if !isSpecial(r) && len(held) == 0 {
			plain.WriteRune(r)
			continue
		}
		if err := flush(); err != nil {
			return err
		}
		switch {
		case s == entity.KeyNull:
			if err := p.KeyActions().Release(held...).Do(); err != nil {
				return err
			}
			held = nil
		case modifierKeys[s] != 0:
			k := modifierKeys[s]
			if err := p.KeyActions().Press(k).Do(); err != nil {
				return err
			}
			held = append(held, k)
		case specialKeys[s] != 0:
			if err := p.KeyActions().Type(specialKeys[s]).Do(); err != nil {
				return err
			}
		case isSpecial(r):
			return failure.Invalid("Unsupported key %U", r)
		default:
			if err := p.KeyActions().Type(input.Key(r)).Do(); err != nil {
				return err
			}
		}
	}
	if err := flush(); err != nil {
		return err
	}
	if len(held) > 0 {
		return p.KeyActions().Release(held...).Do()
	}
	return nil
}
