package ebikbd

import (
	"bytes"
	"errors"
	"fmt"
	"image/color"
	"io/fs"
	"log"
	"math"
	"os"
	"reflect"

	"github.com/ebitenui/ebitenui"
	"github.com/ebitenui/ebitenui/image"
	"github.com/ebitenui/ebitenui/widget"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"golang.org/x/image/font/gofont/goregular"

	"github.com/divVerent/vkeyboard/internal/file"
	"github.com/divVerent/vkeyboard/internal/keyboard"
	"github.com/divVerent/vkeyboard/internal/keycap"
	"github.com/divVerent/vkeyboard/internal/locale"
	"github.com/divVerent/vkeyboard/internal/state"
	"github.com/divVerent/vkeyboard/internal/version"
)

// QuitError is returned from Update when the window was closed.
var QuitError = errors.New("quit")

// Config selects the keyboard to show.
type Config struct {
	PrefsFile string
	Dir       string
	Keyboard  string
	Locale    string
	Watch     bool
}

type UI struct {
	ui *ebitenui.UI

	config       Config
	prefs        *file.Prefs
	keyboardPath string
	opts         *keyboard.Options
	store        *state.Store
	editor       *state.Editor
	watcher      *file.Watcher
	latch        keycap.Latch
	typed        string
	status       string
	font         *text.GoTextFaceSource
	dataVersion  string

	rawWidth, rawHeight int
	scale               float64
	mustRecreateUI      bool
	recreating          bool
	prevCaps            [][]keycap.Cap

	rootContainer *widget.Container
	statusLabel   *widget.Label
	typedLabel    *widget.Label
}

func (p *UI) Init(w, h int, config Config) error {
	ebiten.SetWindowSize(w, h)
	ebiten.SetWindowTitle("Virtual Keyboard")
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowClosingHandled(true)

	p.config = config

	prefs, err := file.ReadPrefs(os.DirFS("."), config.PrefsFile)
	if err != nil {
		log.Printf("Could not load prefs - starting fresh: %v.", err)
		prefs = &file.Prefs{}
	}
	p.prefs = prefs

	fsys, err := file.OpenFS(p.prefs.DataPassword)
	if err != nil {
		return fmt.Errorf("could not open keyboard data: %w", err)
	}
	p.initDataVersion(fsys)

	err = p.initKeyboard(fsys)
	if err != nil {
		return err
	}

	if config.Watch {
		p.watcher, err = file.Watch(p.keyboardPath)
		if err != nil {
			log.Printf("Could not watch %v - reloading disabled: %v.", p.keyboardPath, err)
		}
	}

	return p.initUI()
}

func (p *UI) initDataVersion(fsys fs.FS) {
	v, err := fs.ReadFile(fsys, "version.txt")
	if err != nil {
		p.dataVersion = "(unknown)"
		return
	}
	p.dataVersion = string(bytes.TrimSpace(v))
}

func (p *UI) keyboardName() string {
	if p.config.Keyboard != "" {
		return p.config.Keyboard
	}
	if p.prefs.Keyboard != "" {
		return p.prefs.Keyboard
	}
	return "default.yml"
}

func (p *UI) initKeyboard(fsys fs.FS) error {
	name := p.keyboardName()
	path, err := file.FindKeyboard(fsys, p.config.Dir, locale.Candidates(p.config.Locale), name)
	if err != nil {
		return err
	}
	log.Printf("Picked keyboard: %v.", path)

	p.opts, err = file.ReadKeyboard(fsys, path)
	if err != nil {
		return err
	}
	p.store, err = state.NewStoreFor(p.opts)
	if err != nil {
		return err
	}
	if p.prefs.State != "" && name == p.prefs.Keyboard {
		err = p.store.SetCurrentState(p.store.SplitState(p.prefs.State))
		if err != nil {
			log.Printf("Could not restore state %v: %v.", p.prefs.State, err)
		}
	}
	p.keyboardPath = path
	p.prefs.Keyboard = name
	p.editor = state.NewEditor(p.store)
	p.store.OnChange(p.stateChanged)
	return nil
}

func (p *UI) stateChanged() {
	p.editor.Reset()
	p.mustRecreateUI = true
	p.prefs.State = p.store.CurrentState()
	err := file.WritePrefs(p.config.PrefsFile, p.prefs)
	if err != nil {
		log.Printf("Could not save prefs: %v.", err)
	}
}

func (p *UI) Shutdown() {
	if p.watcher == nil {
		return
	}
	err := p.watcher.Close()
	if err != nil {
		log.Printf("Could not stop watching: %v.", err)
	}
	p.watcher = nil
}

func (p *UI) initUI() error {
	var err error
	p.font, err = text.NewGoTextFaceSource(bytes.NewReader(goregular.TTF))
	if err != nil {
		return err
	}
	p.rootContainer = widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(image.NewNineSliceColor(color.White)),
		widget.ContainerOpts.Layout(widget.NewAnchorLayout()),
	)
	p.ui = &ebitenui.UI{
		Container: p.rootContainer,
	}
	p.mustRecreateUI = true
	return nil
}

// distinct keeps the first occurrence of each option, plus the current value.
func distinct(options []string, current string) []any {
	var ret []any
	seen := map[string]bool{}
	for _, o := range options {
		if seen[o] {
			continue
		}
		seen[o] = true
		ret = append(ret, o)
	}
	if !seen[current] {
		ret = append(ret, current)
	}
	return ret
}

func entryName(e any) string {
	return e.(string)
}

func (p *UI) recreateUI() {
	p.recreating = true
	defer func() {
		p.recreating = false
	}()

	fontSize := 4.0 * p.scale
	smallFontSize := 2.5 * p.scale
	spacing := int(math.Round(2 * p.scale))
	listSliderSize := int(math.Round(6 * p.scale))
	buttonInsets := int(math.Round(p.scale))
	keySpacing := max(1, int(math.Round(0.5*p.scale)))
	keyHeight := int(math.Round(8 * p.scale))

	fontFace := &text.GoTextFace{
		Source: p.font,
		Size:   fontSize,
	}
	smallFontFace := &text.GoTextFace{
		Source: p.font,
		Size:   smallFontSize,
	}

	labelColors := &widget.LabelColor{
		Idle:     color.Black,
		Disabled: color.Gray{Y: 128},
	}
	buttonTextColor := &widget.ButtonTextColor{
		Idle:     color.White,
		Hover:    color.Gray{Y: 64},
		Pressed:  color.Black,
		Disabled: color.Gray{Y: 192},
	}
	keyTextColor := &widget.ButtonTextColor{
		Idle:     color.Black,
		Hover:    color.Black,
		Pressed:  color.White,
		Disabled: color.Gray{Y: 128},
	}
	buttonImage := &widget.ButtonImage{
		Idle:     image.NewNineSliceColor(color.Black),
		Hover:    image.NewNineSliceColor(color.Gray{Y: 192}),
		Pressed:  image.NewNineSliceColor(color.White),
		Disabled: image.NewNineSliceColor(color.Gray{Y: 64}),
	}
	sliderTrackImage := &widget.SliderTrackImage{
		Idle:  image.NewNineSliceColor(color.Gray{Y: 128}),
		Hover: image.NewNineSliceColor(color.Gray{Y: 160}),
	}
	sliderButtonImage := &widget.ButtonImage{
		Idle:    image.NewNineSliceColor(color.Black),
		Hover:   image.NewNineSliceColor(color.Gray{Y: 64}),
		Pressed: image.NewNineSliceColor(color.Gray{Y: 192}),
	}
	scrollContainerImage := &widget.ScrollContainerImage{
		Idle:     image.NewNineSliceColor(color.Gray{Y: 192}),
		Disabled: image.NewNineSliceColor(color.Gray{Y: 192}),
		Mask:     image.NewNineSliceColor(color.Gray{Y: 192}),
	}
	listEntryColor := &widget.ListEntryColor{
		Selected:                   color.White,
		Unselected:                 color.Black,
		SelectedBackground:         color.Black,
		SelectingBackground:        color.White,
		SelectingFocusedBackground: color.Gray{Y: 192},
		SelectedFocusedBackground:  color.Black,
		FocusedBackground:          color.White,
		DisabledUnselected:         color.Black,
		DisabledSelected:           color.White,
		DisabledSelectedBackground: color.Black,
	}

	// Rebuild the rootContainer.

	p.rootContainer.RemoveChildren()

	mainContainer := widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewGridLayout(
			widget.GridLayoutOpts.Columns(1),
			widget.GridLayoutOpts.Spacing(spacing, spacing),
			widget.GridLayoutOpts.Padding(widget.NewInsetsSimple(spacing)),
			widget.GridLayoutOpts.Stretch([]bool{true}, []bool{false, false, false, false, true}),
		)),
		widget.ContainerOpts.WidgetOpts(
			widget.WidgetOpts.LayoutData(widget.AnchorLayoutData{
				StretchHorizontal: true,
				StretchVertical:   true,
			})),
	)
	p.rootContainer.AddChild(mainContainer)

	versionLabel := widget.NewLabel(
		widget.LabelOpts.Text(fmt.Sprintf("Version: code %s, data %s", version.Version(), p.dataVersion), smallFontFace, labelColors),
		widget.LabelOpts.TextOpts(
			widget.TextOpts.Position(widget.TextPositionEnd, widget.TextPositionCenter),
		),
	)
	mainContainer.AddChild(versionLabel)

	// One selector per part of the current state.
	filters := p.editor.Filters()
	partsStretch := make([]bool, max(1, len(filters)))
	for i := range partsStretch {
		partsStretch[i] = true
	}
	partsContainer := widget.NewContainer(
		widget.ContainerOpts.Layout(widget.NewGridLayout(
			widget.GridLayoutOpts.Columns(max(1, len(filters))),
			widget.GridLayoutOpts.Spacing(spacing, spacing),
			widget.GridLayoutOpts.Stretch(partsStretch, []bool{false}),
		)),
	)
	mainContainer.AddChild(partsContainer)
	for _, f := range filters {
		index := f.Index
		part := widget.NewListComboButton(
			widget.ListComboButtonOpts.SelectComboButtonOpts(
				widget.SelectComboButtonOpts.ComboButtonOpts(
					widget.ComboButtonOpts.ButtonOpts(
						widget.ButtonOpts.Image(buttonImage),
						widget.ButtonOpts.TextPadding(widget.Insets{Left: buttonInsets, Right: buttonInsets}),
						widget.ButtonOpts.Text("", fontFace, buttonTextColor),
					),
				),
			),
			widget.ListComboButtonOpts.ListOpts(
				widget.ListOpts.Entries(distinct(f.Options, f.Ref)),
				widget.ListOpts.ScrollContainerOpts(
					widget.ScrollContainerOpts.Image(scrollContainerImage),
				),
				widget.ListOpts.SliderOpts(
					widget.SliderOpts.Images(sliderTrackImage, sliderButtonImage),
					widget.SliderOpts.MinHandleSize(listSliderSize),
				),
				widget.ListOpts.HideHorizontalSlider(),
				widget.ListOpts.EntryFontFace(fontFace),
				widget.ListOpts.EntryColor(listEntryColor),
				widget.ListOpts.EntryTextPadding(widget.NewInsetsSimple(buttonInsets))),
			widget.ListComboButtonOpts.EntryLabelFunc(entryName, entryName),
			widget.ListComboButtonOpts.EntrySelectedHandler(func(args *widget.ListComboButtonEntrySelectedEventArgs) {
				if p.recreating {
					return
				}
				p.partSelected(index, args.Entry.(string))
			}),
		)
		part.SetSelectedEntry(f.Ref)
		partsContainer.AddChild(part)
	}

	p.statusLabel = widget.NewLabel(
		widget.LabelOpts.Text(p.status, smallFontFace, labelColors),
	)
	mainContainer.AddChild(p.statusLabel)

	p.typedLabel = widget.NewLabel(
		widget.LabelOpts.Text(p.typed, fontFace, labelColors),
	)
	mainContainer.AddChild(p.typedLabel)

	// Key rows, sized relative to the widest row.
	keysContainer := widget.NewContainer(
		widget.ContainerOpts.BackgroundImage(image.NewNineSliceColor(color.Gray{Y: 224})),
		widget.ContainerOpts.Layout(widget.NewGridLayout(
			widget.GridLayoutOpts.Columns(1),
			widget.GridLayoutOpts.Spacing(keySpacing, keySpacing),
			widget.GridLayoutOpts.Padding(widget.NewInsetsSimple(keySpacing)),
			widget.GridLayoutOpts.Stretch([]bool{true}, make([]bool, len(p.prevCaps))),
		)),
	)
	mainContainer.AddChild(keysContainer)

	unit := 0.0
	if w := keycap.MaxRowWidth(p.prevCaps); w > 0 {
		unit = float64(p.rawWidth-2*spacing-2*keySpacing) / w
	}
	for _, row := range p.prevCaps {
		rowContainer := widget.NewContainer(
			widget.ContainerOpts.Layout(widget.NewRowLayout(
				widget.RowLayoutOpts.Direction(widget.DirectionHorizontal),
				widget.RowLayoutOpts.Spacing(keySpacing),
			)),
		)
		keysContainer.AddChild(rowContainer)
		for _, c := range row {
			width := max(1, int(c.Width*unit)-keySpacing)
			if c.Separator {
				rowContainer.AddChild(widget.NewContainer(
					widget.ContainerOpts.Layout(widget.NewRowLayout()),
					widget.ContainerOpts.WidgetOpts(
						widget.WidgetOpts.MinSize(width, keyHeight),
					),
				))
				continue
			}
			keyImage := &widget.ButtonImage{
				Idle:     image.NewNineSliceColor(c.Color),
				Hover:    image.NewNineSliceColor(c.Color.BlendLab(keycap.Blank, 0.5)),
				Pressed:  image.NewNineSliceColor(color.Black),
				Disabled: image.NewNineSliceColor(color.Gray{Y: 224}),
			}
			btn := widget.NewButton(
				widget.ButtonOpts.Text(c.Label, fontFace, keyTextColor),
				widget.ButtonOpts.Image(keyImage),
				widget.ButtonOpts.TextPadding(widget.NewInsetsSimple(buttonInsets)),
				widget.ButtonOpts.ClickedHandler(func(args *widget.ButtonClickedEventArgs) {
					p.keyClicked(c)
				}),
				widget.ButtonOpts.WidgetOpts(
					widget.WidgetOpts.MinSize(width, keyHeight),
				),
			)
			btn.GetWidget().Disabled = !c.Found
			rowContainer.AddChild(btn)
		}
	}
}

func (p *UI) partSelected(index int, value string) {
	ok, err := p.editor.Select(index, value)
	switch {
	case err != nil:
		p.status = err.Error()
	case !ok:
		p.status = fmt.Sprintf("No state with: %s", p.store.CreateState(p.editor.Values()))
	default:
		p.status = ""
	}
	p.mustRecreateUI = true
}

func (p *UI) keyClicked(c keycap.Cap) {
	if !p.opts.Reactivity().Click {
		return
	}
	if p.latch.Press(c.Key) {
		return
	}
	p.typed = keycap.Apply(p.typed, c)
}

func (p *UI) typeKeys() {
	if !p.opts.Reactivity().Type {
		return
	}
	p.typed += string(ebiten.AppendInputChars(nil))
	if inpututil.IsKeyJustPressed(ebiten.KeyBackspace) {
		p.typed = keycap.Apply(p.typed, keycap.Cap{Key: "Backspace"})
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEnter) {
		p.typed = keycap.Apply(p.typed, keycap.Cap{Key: "Enter"})
	}
}

func physicalModifiers() keyboard.ModifierSet {
	return keyboard.ModifierSet{
		keyboard.Alt:     ebiten.IsKeyPressed(ebiten.KeyAlt),
		keyboard.Control: ebiten.IsKeyPressed(ebiten.KeyControl),
		keyboard.Shift:   ebiten.IsKeyPressed(ebiten.KeyShift),
	}
}

// reload switches to a keyboard definition reloaded from disk.
func (p *UI) reload(o *keyboard.Options) {
	err := p.store.SetActiveKeyboard(o)
	if err != nil {
		p.status = fmt.Sprintf("Could not reload: %v", err)
		return
	}
	p.opts = o
	p.status = "Reloaded."
	log.Printf("Reloaded %v.", p.keyboardPath)
}

// updateWidgets updates all widgets to the current state.
func (p *UI) updateWidgets() {
	scale := math.Min(
		float64(p.rawWidth)/160,
		float64(p.rawHeight)/80,
	)
	caps := keycap.Rows(p.opts, p.store.CurrentState(), p.latch.Held(physicalModifiers()))
	if !reflect.DeepEqual(caps, p.prevCaps) {
		p.prevCaps = caps
		p.mustRecreateUI = true
	}
	if math.Abs(scale-p.scale) > 0.001 || p.mustRecreateUI {
		p.scale = scale
		p.mustRecreateUI = false
		p.recreateUI()
	}
	p.statusLabel.Label = p.status
	p.typedLabel.Label = p.typed
}

func (p *UI) Update() error {
	defer p.ui.Update()

	if ebiten.IsWindowBeingClosed() {
		return QuitError
	}

	if p.watcher != nil {
	reloadLoop:
		for {
			select {
			case o := <-p.watcher.Options():
				p.reload(o)
			case err := <-p.watcher.Errors():
				p.status = fmt.Sprintf("Could not reload: %v", err)
				log.Printf("Could not reload %v: %v.", p.keyboardPath, err)
			default:
				// All done.
				break reloadLoop
			}
		}
	}

	p.typeKeys()
	p.updateWidgets()

	return nil
}

func (p *UI) Draw(screen *ebiten.Image) {
	p.ui.Draw(screen)
}

func (p *UI) Layout(outsideWidth int, outsideHeight int) (int, int) {
	p.rawWidth = outsideWidth
	p.rawHeight = outsideHeight
	return p.rawWidth, p.rawHeight
}
