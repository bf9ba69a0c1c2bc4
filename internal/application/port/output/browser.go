package output

import (
	"context"

	"browser-keywords/internal/domain/entity"

	"github.com/ysmood/gson"
)

type By int

const (
	ByXPath By = iota
	ByCSS
)

func (b By) String() string {
	if b == ByCSS {
		return "css"
	}
	return "xpath"
}

// Driver is the browser session the keyword core drives. Queries and scripts run in
// the currently focused frame; SwitchToDefault and SwitchToFrame move that focus.
type Driver interface {
	Navigate(ctx context.Context, url string) error
	Back(ctx context.Context) error
	Forward(ctx context.Context) error
	Refresh(ctx context.Context) error
	CurrentURL(ctx context.Context) (string, error)
	Title(ctx context.Context) (string, error)
	PageSource(ctx context.Context) (string, error)

	FindElements(ctx context.Context, by By, expr string) ([]Element, error)
	// Execute runs a function expression. Element arguments are passed by reference.
	Execute(ctx context.Context, script string, args ...any) (gson.JSON, error)
	// ExecuteElements runs a function expression that returns an array of nodes.
	ExecuteElements(ctx context.Context, script string, args ...any) ([]Element, error)
	// ExecuteElement runs a function expression that returns a node or null.
	ExecuteElement(ctx context.Context, script string, args ...any) (Element, error)

	SwitchToDefault(ctx context.Context) error
	SwitchToFrame(ctx context.Context, frame Element) error
	FrameDepth() int

	// Alert returns the open dialog or an ElementNotFound failure when there is none.
	Alert(ctx context.Context) (Alert, error)

	WindowHandles(ctx context.Context) ([]string, error)
	CurrentWindow(ctx context.Context) (string, error)
	SwitchWindow(ctx context.Context, handle string) error
	CloseWindow(ctx context.Context, handle string) error
	SetWindowSize(ctx context.Context, width, height int) error

	// InsertText types into whatever has focus, bypassing element lookups.
	InsertText(ctx context.Context, text string) error
	// PressKeys sends a key sequence (private-use key codes allowed) to the focused element.
	PressKeys(ctx context.Context, keys string) error

	Screenshot(ctx context.Context) (*entity.Screenshot, error)
	Close() error
}

type Element interface {
	Click(ctx context.Context) error
	DoubleClick(ctx context.Context) error
	Hover(ctx context.Context) error
	SendKeys(ctx context.Context, keys string) error
	Clear(ctx context.Context) error
	Attribute(ctx context.Context, name string) (string, bool, error)
	Property(ctx context.Context, name string) (gson.JSON, error)
	Text(ctx context.Context) (string, error)
	TagName(ctx context.Context) (string, error)
	Rect(ctx context.Context) (entity.Rect, error)
	Enabled(ctx context.Context) (bool, error)
	Selected(ctx context.Context) (bool, error)
	ScrollIntoView(ctx context.Context) error
	Screenshot(ctx context.Context) ([]byte, error)
}

type Alert interface {
	Text() string
	Accept(ctx context.Context) error
	Dismiss(ctx context.Context) error
	SendKeys(ctx context.Context, text string) error
}
