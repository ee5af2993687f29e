package ui

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/a-h/templ"
)

// Position is the viewport edge a sheet slides in from.
type Position string

const (
	PositionTop    Position = "top"
	PositionBottom Position = "bottom"
	PositionLeft   Position = "left"
	PositionRight  Position = "right"
)

// Size is how much of the viewport a sheet covers along its sliding axis.
type Size string

const (
	SizeContent Size = "content"
	SizeDefault Size = "default"
	SizeSM      Size = "sm"
	SizeLG      Size = "lg"
	SizeXL      Size = "xl"
	SizeFull    Size = "full"
)

// Positions lists every sheet position.
func Positions() []Position {
	return []Position{PositionTop, PositionBottom, PositionLeft, PositionRight}
}

// Sizes lists every sheet size.
func Sizes() []Size {
	return []Size{SizeContent, SizeDefault, SizeSM, SizeLG, SizeXL, SizeFull}
}

// SheetConfig selects a sheet's look. Zero values resolve to right/default.
type SheetConfig struct {
	Position Position
	Size     Size
}

func (c SheetConfig) selection() Selection {
	return Selection{"position": string(c.Position), "size": string(c.Size)}
}

var portalVariants = Variants{
	Base: "fixed inset-0 z-50 flex",
	Axes: []Axis{{
		Name: "position",
		Values: map[string]string{
			"top":    "items-start",
			"bottom": "items-end",
			"left":   "justify-start",
			"right":  "justify-end",
		},
	}},
	Defaults: Selection{"position": "right"},
}

var vertical = []string{"top", "bottom"}
var horizontal = []string{"right", "left"}

var sheetVariants = Variants{
	Base: "fixed z-50 scale-100 gap-4 bg-white p-6 opacity-100 dark:bg-neutral-900",
	Axes: []Axis{
		{
			Name: "position",
			Values: map[string]string{
				"top":    "animate-in slide-in-from-top w-full duration-300",
				"bottom": "animate-in slide-in-from-bottom w-full duration-300",
				"left":   "animate-in slide-in-from-left h-full duration-300",
				"right":  "animate-in slide-in-from-right h-full duration-300",
			},
		},
		{
			Name: "size",
			Values: map[string]string{
				"content": "", "default": "", "sm": "", "lg": "", "xl": "", "full": "",
			},
		},
	},
	Compound: []CompoundVariant{
		{Match: map[string][]string{"position": vertical, "size": {"content"}}, Class: "max-h-screen"},
		{Match: map[string][]string{"position": vertical, "size": {"default"}}, Class: "h-1/3"},
		{Match: map[string][]string{"position": vertical, "size": {"sm"}}, Class: "h-1/4"},
		{Match: map[string][]string{"position": vertical, "size": {"lg"}}, Class: "h-1/2"},
		{Match: map[string][]string{"position": vertical, "size": {"xl"}}, Class: "h-5/6"},
		{Match: map[string][]string{"position": vertical, "size": {"full"}}, Class: "h-screen"},
		{Match: map[string][]string{"position": horizontal, "size": {"content"}}, Class: "max-w-screen"},
		{Match: map[string][]string{"position": horizontal, "size": {"default"}}, Class: "w-1/3"},
		{Match: map[string][]string{"position": horizontal, "size": {"sm"}}, Class: "w-1/4"},
		{Match: map[string][]string{"position": horizontal, "size": {"lg"}}, Class: "w-1/2"},
		{Match: map[string][]string{"position": horizontal, "size": {"xl"}}, Class: "w-5/6"},
		{Match: map[string][]string{"position": horizontal, "size": {"full"}}, Class: "w-screen"},
	},
	Defaults: Selection{"position": "right", "size": "default"},
}

const overlayClass = "data-[state=closed]:animate-out data-[state=open]:fade-in data-[state=closed]:fade-out fixed inset-0 z-50 bg-black/50 backdrop-blur-sm transition-all duration-100"

const closeClass = "h-6 w-6 absolute top-4 right-4 rounded-sm opacity-70 transition-opacity hover:opacity-100 focus:outline-none focus:ring-2 focus:ring-neutral-400 focus:ring-offset-2 data-[state=open]:bg-neutral-100 dark:focus:ring-neutral-400 dark:focus:ring-offset-neutral-900 dark:data-[state=open]:bg-neutral-800"

// SheetClass resolves the panel's classes for cfg.
func SheetClass(cfg SheetConfig) string {
	return sheetVariants.Resolve(cfg.selection())
}

// PortalClass resolves the full-viewport container's alignment for pos.
func PortalClass(pos Position) string {
	return portalVariants.Resolve(Selection{"position": string(pos)})
}

// OverlayClass returns the backdrop classes, merged with extra.
func OverlayClass(extra string) string {
	return Merge(overlayClass, extra)
}

// PanelState tracks a sheet through its enter and exit animations.
type PanelState int

const (
	PanelClosed PanelState = iota
	PanelOpening
	PanelOpen
	PanelClosing
)

func (s PanelState) String() string {
	switch s {
	case PanelOpening:
		return "opening"
	case PanelOpen:
		return "open"
	case PanelClosing:
		return "closing"
	default:
		return "closed"
	}
}

// Signal reacts to the externally owned open flag.
func (s PanelState) Signal(open bool) PanelState {
	switch {
	case open && (s == PanelClosed || s == PanelClosing):
		return PanelOpening
	case !open && (s == PanelOpen || s == PanelOpening):
		return PanelClosing
	}
	return s
}

// Settle completes a running animation.
func (s PanelState) Settle() PanelState {
	switch s {
	case PanelOpening:
		return PanelOpen
	case PanelClosing:
		return PanelClosed
	}
	return s
}

// Visible reports whether the panel occupies the viewport.
func (s PanelState) Visible() bool { return s != PanelClosed }

// DataState is the value of the data-state attribute the animation classes key on.
func (s PanelState) DataState() string {
	if s == PanelOpening || s == PanelOpen {
		return "open"
	}
	return "closed"
}

type portalKey struct{}

type portalTarget struct {
	mu    sync.Mutex
	queue []templ.Component
}

// WithPortalTarget returns a context in which portal content is deferred until
// PortalOutlet renders. Without a target, portals render in place.
func WithPortalTarget(ctx context.Context) context.Context {
	return context.WithValue(ctx, portalKey{}, &portalTarget{})
}

// PortalOutlet renders, in order, everything portaled so far and clears the queue.
func PortalOutlet() templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		target, _ := ctx.Value(portalKey{}).(*portalTarget)
		if target == nil {
			return nil
		}
		target.mu.Lock()
		queue := target.queue
		target.queue = nil
		target.mu.Unlock()
		for _, c := range queue {
			if err := c.Render(ctx, w); err != nil {
				return err
			}
		}
		return nil
	})
}

func portal(ctx context.Context, w io.Writer, c templ.Component) error {
	if target, ok := ctx.Value(portalKey{}).(*portalTarget); ok {
		target.mu.Lock()
		target.queue = append(target.queue, c)
		target.mu.Unlock()
		return nil
	}
	return c.Render(ctx, w)
}

// SheetPortal wraps children in the full-viewport flex container and mounts it at
// the portal outlet.
func SheetPortal(pos Position, id string, children ...templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		return portal(ctx, w, templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
			idAttr := ""
			if id != "" {
				idAttr = fmt.Sprintf(` id="%s"`, templ.EscapeString(id))
			}
			if _, err := fmt.Fprintf(w, `<div%s class="%s" data-sheet data-position="%s">`,
				idAttr, templ.EscapeString(PortalClass(pos)), templ.EscapeString(string(pos))); err != nil {
				return err
			}
			for _, c := range children {
				if err := c.Render(ctx, w); err != nil {
					return err
				}
			}
			_, err := io.WriteString(w, `</div>`)
			return err
		}))
	})
}

// SheetOverlay is the backdrop. Following it requests that the sheet close.
func SheetOverlay(closeHref string, state PanelState) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := fmt.Fprintf(w, `<a href="%s" class="%s" data-state="%s" data-sheet-dismiss aria-hidden="true" tabindex="-1"></a>`,
			templ.EscapeString(closeHref), templ.EscapeString(OverlayClass("")), state.DataState())
		return err
	})
}

// SheetProps configures Sheet. Open is owned by the caller; the sheet only ever
// asks to close by linking to CloseHref.
type SheetProps struct {
	ID        string
	Open      bool
	Position  Position
	Size      Size
	CloseHref string
	Class     string
	Title     string
}

// Sheet is a slide-over panel with a backdrop and a dismiss button. Children come
// from templ.WithChildren. Nothing renders while the panel is closed.
func Sheet(p SheetProps) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		state := PanelClosed.Signal(p.Open).Settle()
		if !state.Visible() {
			return nil
		}
		children := templ.GetChildren(ctx)
		pos := p.Position
		if pos == "" {
			pos = PositionRight
		}
		content := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
			label := ""
			if p.Title != "" {
				label = fmt.Sprintf(` aria-label="%s"`, templ.EscapeString(p.Title))
			}
			if _, err := fmt.Fprintf(w, `<div role="dialog" aria-modal="true"%s class="%s" data-state="%s">`,
				label, templ.EscapeString(Merge(SheetClass(SheetConfig{Position: p.Position, Size: p.Size}), p.Class)), state.DataState()); err != nil {
				return err
			}
			if err := children.Render(templ.ClearChildren(ctx), w); err != nil {
				return err
			}
			if _, err := fmt.Fprintf(w, `<a href="%s" class="%s" data-state="%s" data-sheet-dismiss>`,
				templ.EscapeString(p.CloseHref), closeClass, state.DataState()); err != nil {
				return err
			}
			if err := Icon("i-carbon-close h-6 w-6").Render(ctx, w); err != nil {
				return err
			}
			_, err := io.WriteString(w, `<span class="sr-only">Close</span></a></div>`)
			return err
		})
		return SheetPortal(pos, p.ID, SheetOverlay(p.CloseHref, state), content).Render(ctx, w)
	})
}
