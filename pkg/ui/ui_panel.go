package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
)

const (
	titleHeight   = 30.0
	sectionHeight = 25.0
	labelHeight   = 15.0
	margin        = 10.0
)

// UIWidget is anything the panel can stack vertically.
type UIWidget interface {
	Update()
	Draw(screen *ebiten.Image)
	// GetHeight is the vertical space taken, label included.
	GetHeight() float64
	// place moves the widget so its label starts at (x, y).
	place(x, y float64)
}

type SliderWrapper struct {
	*Slider
}

func (s *SliderWrapper) GetHeight() float64 { return labelHeight + s.H + 12 }
func (s *SliderWrapper) place(x, y float64) { s.X, s.Y = x, y+labelHeight }

type CheckboxWrapper struct {
	*Checkbox
}

func (c *CheckboxWrapper) GetHeight() float64 { return c.Size + 8 }

// The checkbox sits left of its label, on the same line.
func (c *CheckboxWrapper) place(x, y float64) { c.X, c.Y = x, y }

type ButtonWrapper struct {
	*Button
}

func (b *ButtonWrapper) GetHeight() float64 { return b.Height + 8 }
func (b *ButtonWrapper) place(x, y float64) { b.X, b.Y = x, y }

// PanelSection groups the widgets added between AddSection and EndSection.
type PanelSection struct {
	Title      string
	StartIndex int
	EndIndex   int
}

// UIPanel lays out widgets in a scrollable column.
type UIPanel struct {
	Title         string
	X, Y          float64
	Width, Height float64
	Visible       bool
	Widgets       []UIWidget
	Labels        []string
	ScrollOffset  float64

	BGColor     color.RGBA
	BorderColor color.RGBA

	sections []PanelSection
}

func NewUIPanel(title string, x, y, width, height float64) *UIPanel {
	return &UIPanel{
		Title:       title,
		X:           x,
		Y:           y,
		Width:       width,
		Height:      height,
		Visible:     true,
		BGColor:     color.RGBA{R: 40, G: 40, B: 45, A: 220},
		BorderColor: color.RGBA{R: 100, G: 100, B: 110, A: 255},
	}
}

func (p *UIPanel) AddSection(title string) {
	p.sections = append(p.sections, PanelSection{
		Title:      title,
		StartIndex: len(p.Widgets),
		EndIndex:   len(p.Widgets),
	})
}

func (p *UIPanel) EndSection() {
	if len(p.sections) > 0 {
		p.sections[len(p.sections)-1].EndIndex = len(p.Widgets)
	}
}

func (p *UIPanel) add(label string, w UIWidget) {
	p.Widgets = append(p.Widgets, w)
	p.Labels = append(p.Labels, label)
	p.layout()
}

func (p *UIPanel) AddSlider(label string, min, max, value float64) *Slider {
	s := NewSlider(0, 0, p.Width-2*margin, label, min, max, value)
	p.add(label, &SliderWrapper{s})
	return s
}

func (p *UIPanel) AddCheckbox(label string, value bool) *Checkbox {
	c := NewCheckbox(0, 0, label, value)
	p.add(label, &CheckboxWrapper{c})
	return c
}

func (p *UIPanel) AddButton(label string, onClick func()) *Button {
	b := NewButton(0, 0, p.Width-2*margin, 22, label, onClick)
	// The button prints its own label.
	p.add("", &ButtonWrapper{b})
	return b
}

// layout positions every widget for the current scroll offset.
// Widgets outside a section are stacked after the last one.
func (p *UIPanel) layout() {
	y := p.Y + titleHeight - p.ScrollOffset
	next := 0
	for _, s := range p.sections {
		for ; next < s.StartIndex; next++ {
			p.Widgets[next].place(p.X+margin, y)
			y += p.Widgets[next].GetHeight()
		}
		y += sectionHeight
		for ; next < s.EndIndex && next < len(p.Widgets); next++ {
			p.Widgets[next].place(p.X+margin, y)
			y += p.Widgets[next].GetHeight()
		}
	}
	for ; next < len(p.Widgets); next++ {
		p.Widgets[next].place(p.X+margin, y)
		y += p.Widgets[next].GetHeight()
	}
}

func (p *UIPanel) contentHeight() float64 {
	h := titleHeight + float64(len(p.sections))*sectionHeight
	for _, w := range p.Widgets {
		h += w.GetHeight()
	}
	return h
}

// Contains reports whether the cursor is over the panel.
func (p *UIPanel) Contains(x, y int) bool {
	return p.Visible &&
		float64(x) >= p.X && float64(x) <= p.X+p.Width &&
		float64(y) >= p.Y && float64(y) <= p.Y+p.Height
}

func (p *UIPanel) Update() {
	if !p.Visible {
		return
	}
	if _, dy := ebiten.Wheel(); dy != 0 && p.Contains(ebiten.CursorPosition()) {
		p.ScrollOffset -= dy * 20
		maxScroll := max(p.contentHeight()-p.Height+margin, 0)
		p.ScrollOffset = min(max(p.ScrollOffset, 0), maxScroll)
	}
	p.layout()
	for _, w := range p.Widgets {
		w.Update()
	}
}

func (p *UIPanel) visible(y, h float64) bool {
	return y >= p.Y+titleHeight-h && y+h <= p.Y+p.Height+h
}

func (p *UIPanel) Draw(screen *ebiten.Image) {
	if !p.Visible {
		return
	}
	vector.FillRect(screen,
		float32(p.X), float32(p.Y),
		float32(p.Width), float32(p.Height),
		p.BGColor, true)
	vector.StrokeRect(screen,
		float32(p.X), float32(p.Y),
		float32(p.Width), float32(p.Height),
		2, p.BorderColor, true)
	ebitenutil.DebugPrintAt(screen, p.Title, int(p.X+margin), int(p.Y+5))

	p.layout()
	y := p.Y + titleHeight - p.ScrollOffset
	next := 0
	drawUpTo := func(end int) {
		for ; next < end && next < len(p.Widgets); next++ {
			w := p.Widgets[next]
			if p.visible(y, w.GetHeight()) {
				p.drawLabel(screen, next, y)
				w.Draw(screen)
			}
			y += w.GetHeight()
		}
	}
	for _, s := range p.sections {
		drawUpTo(s.StartIndex)
		if p.visible(y, sectionHeight) {
			vector.FillRect(screen,
				float32(p.X+5), float32(y),
				float32(p.Width-10), 20,
				color.RGBA{R: 60, G: 60, B: 70, A: 255}, true)
			ebitenutil.DebugPrintAt(screen, s.Title, int(p.X+margin), int(y+2))
		}
		y += sectionHeight
		drawUpTo(s.EndIndex)
	}
	drawUpTo(len(p.Widgets))
}

func (p *UIPanel) drawLabel(screen *ebiten.Image, i int, y float64) {
	label := p.Labels[i]
	if label == "" {
		return
	}
	x := p.X + margin
	if cw, ok := p.Widgets[i].(*CheckboxWrapper); ok {
		x += cw.Size + 8
	}
	ebitenutil.DebugPrintAt(screen, label, int(x), int(y))
}
