package widget

import (
	"bytes"
	"fmt"
	"html/template"
)

type Trigger struct {
	Label    string
	Position Position
	Color    string
}

type Overlay struct {
	Title       string
	Placeholder string
	Draft       string
	SubmitLabel string
	CloseLabel  string
	Color       string
	Theme       ColorScheme
}

// View is the widget's rendering at one instant. Overlay is nil while idle.
type View struct {
	Trigger Trigger
	Overlay *Overlay
}

func (w *Widget) View() View {
	w.mu.Lock()
	defer w.mu.Unlock()

	v := View{
		Trigger: Trigger{
			Label:    "Feedback",
			Position: w.cfg.Position,
			Color:    w.cfg.Color,
		},
	}
	if w.state == StateFormOpen {
		v.Overlay = &Overlay{
			Title:       "Leave Feedback",
			Placeholder: "Your feedback...",
			Draft:       w.draft,
			SubmitLabel: "Submit",
			CloseLabel:  "Close",
			Color:       w.cfg.Color,
			Theme:       w.theme,
		}
	}
	return v
}

type palette struct {
	Background string
	Text       string
	Field      string
	CloseBg    string
	CloseText  string
}

var palettes = map[ColorScheme]palette{
	Light: {Background: "#fff", Text: "#111827", Field: "#fff", CloseBg: "#ccc", CloseText: "#000"},
	Dark:  {Background: "#1f2937", Text: "#f9fafb", Field: "#111827", CloseBg: "#4b5563", CloseText: "#fff"},
}

var viewTemplate = template.Must(template.New("widget").Parse(`<button type="button" data-gyf="trigger" style="{{.TriggerStyle}}">{{.View.Trigger.Label}}</button>
{{- with .View.Overlay}}
<div data-gyf="overlay" role="dialog" style="{{$.OverlayStyle}}">
<h3 style="margin-bottom: 10px;">{{.Title}}</h3>
<textarea data-gyf="text" placeholder="{{.Placeholder}}" style="{{$.FieldStyle}}">{{.Draft}}</textarea>
<button type="button" data-gyf="submit" style="{{$.SubmitStyle}}">{{.SubmitLabel}}</button>
<button type="button" data-gyf="close" style="{{$.CloseStyle}}">{{.CloseLabel}}</button>
</div>
{{- end}}
`))

// HTML renders the view as markup. Colors and positions come from a
// normalized Config, so they are emitted as trusted CSS.
func (v View) HTML() (string, error) {
	vertical, horizontal := v.Trigger.Position.Edges()
	data := struct {
		View         View
		TriggerStyle template.CSS
		OverlayStyle template.CSS
		FieldStyle   template.CSS
		SubmitStyle  template.CSS
		CloseStyle   template.CSS
	}{
		View: v,
		TriggerStyle: template.CSS(fmt.Sprintf(
			"position: fixed; %s: 20px; %s: 20px; background-color: %s; color: #fff; border: none; border-radius: 5px; padding: 10px 20px; cursor: pointer; z-index: 1000;",
			vertical, horizontal, v.Trigger.Color)),
	}

	if o := v.Overlay; o != nil {
		p := palettes[o.Theme]
		data.OverlayStyle = template.CSS(fmt.Sprintf(
			"position: fixed; top: 50%%; left: 50%%; transform: translate(-50%%, -50%%); background-color: %s; color: %s; padding: 20px; border-radius: 10px; box-shadow: 0 0 10px rgba(0, 0, 0, 0.1); z-index: 1001;",
			p.Background, p.Text))
		data.FieldStyle = template.CSS(fmt.Sprintf(
			"width: 100%%; height: 100px; margin-bottom: 10px; background-color: %s; color: %s;",
			p.Field, p.Text))
		data.SubmitStyle = template.CSS(fmt.Sprintf(
			"background-color: %s; color: #fff; border: none; padding: 10px 20px; border-radius: 5px; cursor: pointer;",
			o.Color))
		data.CloseStyle = template.CSS(fmt.Sprintf(
			"background-color: %s; color: %s; border: none; padding: 10px 20px; border-radius: 5px; cursor: pointer; margin-left: 10px;",
			p.CloseBg, p.CloseText))
	}

	var buf bytes.Buffer
	if err := viewTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render widget view: %w", err)
	}
	return buf.String(), nil
}
