package config

import (
	"time"

	"browser-keywords/internal/domain/entity"
	"browser-keywords/internal/search"
)

// Names of the knobs read by the core. Lookups normalize, so these are only spellings.
const (
	ScreenshotType      = "ScreenshotType"
	LineBreak           = "LineBreak"
	ClearKey            = "ClearKey"
	CSSSelectors        = "CssSelectors"
	LogScreenshot       = "LogScreenshot"
	SearchDirection     = "SearchDirection"
	CheckInputValue     = "CheckInputValue"
	DefaultTimeout      = "DefaultTimeout"
	XHRTimeout          = "XHRTimeout"
	DefaultDocument     = "DefaultDocument"
	InputHandler        = "InputHandler"
	CaseInsensitive     = "CaseInsensitive"
	AllInputElements    = "AllInputElements"
	MatchingInputEl     = "MatchingInputElement"
	ActiveAreaXPath     = "ActiveAreaXpath"
	TextMatch           = "TextMatch"
	ContainingTextMatch = "ContainingTextMatch"
	IsModalXPath        = "IsModalXpath"
	VerifyAppAccuracy   = "VerifyAppAccuracy"
	OffsetCheck         = "OffsetCheck"
	Visibility          = "Visibility"
	InViewport          = "InViewport"
	WindowSizeName      = "WindowSize"
	DoubleClick         = "DoubleClick"
	LimitTraverse       = "LimitTraverse"
	PartialMatch        = "PartialMatch"
	SearchMode          = "SearchMode"
	MultipleAnchors     = "MultipleAnchors"
	WindowFind          = "WindowFind"
	ClickToFocus        = "ClickToFocus"
	HandleAlerts        = "HandleAlerts"
	BlindReturn         = "BlindReturn"
	Headless            = "Headless"
	Delay               = "Delay"
	RunBefore           = "RunBefore"
	RetryInterval       = "RetryInterval"
	StayInCurrentFrame  = "StayInCurrentFrame"
	FrameTimeout        = "FrameTimeout"
	AllTextNodes        = "AllTextNodes"
	OSScreenshots       = "OSScreenshots"
	RetinaDisplay       = "RetinaDisplay"
	LogMatchedIcons     = "LogMatchedIcons"
	ShadowDOM           = "ShadowDOM"
	HighlightColor      = "HighlightColor"
	RenderWait          = "RenderWait"
	SpinnerCSS          = "SpinnerCSS"
	WaitStrategy        = "WaitStrategy"
	JQuerySource        = "JQuerySource"
	DebugRun            = "DebugRun"
	ScrollStep          = "ScrollStep"
	CheckInputRetries   = "CheckInputRetries"
)

const defaultJQuery = "https://code.jquery.com/jquery-3.7.1.min.js"

type definition struct {
	name     string
	def      any
	validate Validator
	// sideEffect entries re-notify watchers when reset.
	sideEffect bool
	help       string
}

func definitions() []definition {
	return []definition{
		{name: ScreenshotType, def: "screenshot", validate: lowerOneOf("screenshot", "html", "all"),
			help: "What to capture on failure."},
		{name: LineBreak, def: entity.KeyTab, validate: lineBreakValue, sideEffect: true,
			help: "Key sent after typed text. none/empty/null disables it."},
		{name: ClearKey, def: "", validate: clearKeyValue, sideEffect: true,
			help: "Key combination used to clear inputs, e.g. {CTRL+A}{DELETE}."},
		{name: CSSSelectors, def: true, validate: boolValue,
			help: "Use CSS queries where faster than XPath."},
		{name: LogScreenshot, def: true, validate: boolValue,
			help: "Write a screenshot when a keyword fails."},
		{name: SearchDirection, def: "closest", validate: directionValue,
			help: "Direction from the anchor text: closest, up, down, left, right; trailing ! makes it strict."},
		{name: CheckInputValue, def: false, validate: boolValue,
			help: "Read the value back after typing and compare."},
		{name: CheckInputRetries, def: 3, validate: intValue,
			help: "How many times typing is repeated when CheckInputValue fails."},
		{name: DefaultTimeout, def: 10 * time.Second, validate: durationValue,
			help: "Timeout used when a keyword gets none."},
		{name: XHRTimeout, def: 30 * time.Second, validate: optionalDurationValue,
			help: "Upper bound for the page-ready wait. none disables the wait."},
		{name: DefaultDocument, def: true, validate: boolValue,
			help: "Switch to the default document before each wait."},
		{name: InputHandler, def: "selenium", validate: lowerOneOf("selenium", "javascript", "raw"), sideEffect: true,
			help: "How text is written: selenium (native keys), javascript (value assignment), raw (keyboard events)."},
		{name: CaseInsensitive, def: false, validate: boolValue, sideEffect: true,
			help: "Case insensitive containing-text match."},
		{name: AllInputElements, def: search.AllInputElements, validate: xpathValue(0),
			help: "XPath of every input considered for label lookups."},
		{name: MatchingInputEl, def: search.MatchingInputElement, validate: matchingInputValue,
			help: "XPath template matching inputs by placeholder or value."},
		{name: ActiveAreaXPath, def: search.ActiveAreaXPath, validate: xpathValue(0),
			help: "Area where searches happen."},
		{name: TextMatch, def: search.TextMatch, validate: xpathValue(1),
			help: "XPath template for exact text match."},
		{name: ContainingTextMatch, def: search.ContainingTextMatchCaseSensitive, validate: xpathValue(1),
			help: "XPath template for partial text match."},
		{name: IsModalXPath, def: search.IsModalXPath, validate: xpathValue(0),
			help: "XPath of a modal that restricts searches when present."},
		{name: VerifyAppAccuracy, def: 0.9999, validate: accuracyValue,
			help: "Image match accuracy."},
		{name: OffsetCheck, def: true, validate: boolValue,
			help: "Require non-zero offsetWidth."},
		{name: Visibility, def: true, validate: boolValue,
			help: "Return only visible elements."},
		{name: InViewport, def: false, validate: boolValue,
			help: "Return only elements inside the viewport."},
		{name: WindowSizeName, def: WindowSize{}, validate: windowSizeValue, sideEffect: true,
			help: "Browser window size as WIDTHxHEIGHT."},
		{name: DoubleClick, def: false, validate: boolValue,
			help: "Clicks are double clicks."},
		{name: LimitTraverse, def: true, validate: boolValue,
			help: "Walk 3 ancestors instead of 6 when looking for a label's input."},
		{name: PartialMatch, def: true, validate: boolValue,
			help: "Fall back to partial text match."},
		{name: SearchMode, def: "draw", validate: lowerOneOf("draw", "debug", "none"),
			help: "draw highlights found elements, debug highlights and pauses, none does neither."},
		{name: MultipleAnchors, def: false, validate: boolValue,
			help: "Accept the first anchor when the anchor text matches many elements."},
		{name: WindowFind, def: false, validate: boolValue,
			help: "Use window.find as a last text lookup."},
		{name: ClickToFocus, def: false, validate: boolValue,
			help: "Click inputs before typing."},
		{name: HandleAlerts, def: true, validate: boolValue,
			help: "Retry when an alert blocks an operation."},
		{name: BlindReturn, def: false, validate: boolValue,
			help: "Getters return empty values instead of failing."},
		{name: Headless, def: false, validate: boolValue,
			help: "Launch the browser headless."},
		{name: Delay, def: time.Duration(0), validate: durationValue,
			help: "Sleep before every keyword."},
		{name: RunBefore, def: []string(nil), validate: runBeforeValue,
			help: "Verify keyword (and args) run before every other keyword."},
		{name: RetryInterval, def: 5 * time.Second, validate: durationValue,
			help: "How long a click waits for its post-condition before clicking again."},
		{name: StayInCurrentFrame, def: false, validate: boolValue,
			help: "Do not return to the default document after a keyword."},
		{name: FrameTimeout, def: 10 * time.Second, validate: durationValue,
			help: "Budget for searching nested frames."},
		{name: AllTextNodes, def: false, validate: boolValue,
			help: "Walk every text node when templates find nothing."},
		{name: OSScreenshots, def: false, validate: boolValue,
			help: "Take screenshots from the OS instead of the browser."},
		{name: RetinaDisplay, def: false, validate: boolValue,
			help: "Screen uses device pixel ratio 2."},
		{name: LogMatchedIcons, def: false, validate: boolValue,
			help: "Log matched icon images."},
		{name: ShadowDOM, def: false, validate: boolValue,
			help: "Search inside open shadow roots."},
		{name: HighlightColor, def: "blue", validate: highlightValue,
			help: "Outline color for found elements."},
		{name: RenderWait, def: 200 * time.Millisecond, validate: millisValue,
			help: "Required DOM quiet period before acting. Bare numbers are milliseconds."},
		{name: SpinnerCSS, def: []string(nil), validate: cssListValue,
			help: "Comma separated selectors that mean the page is still busy."},
		{name: WaitStrategy, def: "enhanced", validate: lowerOneOf("enhanced", "legacy"),
			help: "Page-ready wait strategy."},
		{name: JQuerySource, def: defaultJQuery, validate: stringValue,
			help: "Script injected by the legacy wait when jQuery is missing."},
		{name: DebugRun, def: false, validate: boolValue,
			help: "Pause on failure and wait for the operator."},
		{name: ScrollStep, def: 300, validate: intValue,
			help: "Pixels per scroll step."},
	}
}
