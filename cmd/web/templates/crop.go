// Package templates renders the crop selector page and the fragments the
// stream patches into it.
package templates

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/a-h/templ"
	"thirdcoast.systems/cropframe/cmd/web/internal/crophub"
	"thirdcoast.systems/cropframe/pkg/ffmpeg"
	"thirdcoast.systems/cropframe/pkg/utils/crops"
	"thirdcoast.systems/cropframe/pkg/utils/format"
	"thirdcoast.systems/cropframe/pkg/utils/markdown"
)

// Element IDs shared by the page and the stream.
const (
	OverlayID  = "crop-overlay"
	ControlsID = "crop-controls"
	ReadoutID  = "crop-readout"
)

// DatastarScriptURL is the client bundle matching datastar-go v1.
const DatastarScriptURL = "https://cdn.jsdelivr.net/gh/starfederation/datastar@1.0.0/bundles/datastar.js"

// PageData is everything the crop page needs on first render.
type PageData struct {
	Code     string
	Title    string
	MediaURL string
	// Names maps ratio labels to preset display names.
	Names map[string]string
	Help  *markdown.Markdown
	Media *ffmpeg.ProbeResult
	View  crophub.View
}

// CropPage is the full crop selector page.
func CropPage(p PageData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		title := p.Title
		if title == "" {
			title = "Crop"
		}
		base := "/crop/" + p.Code

		var b strings.Builder
		b.WriteString("<!doctype html><html lang=\"en\"><head><meta charset=\"utf-8\">")
		b.WriteString("<meta name=\"viewport\" content=\"width=device-width, initial-scale=1\">")
		fmt.Fprintf(&b, "<title>%s</title>", esc(title))
		b.WriteString("<link rel=\"stylesheet\" href=\"/static/dist/crop.css\">")
		fmt.Fprintf(&b, "<script type=\"module\" src=\"%s\"></script>", esc(DatastarScriptURL))
		b.WriteString("<script defer src=\"/static/dist/crop.js\"></script>")
		b.WriteString("</head><body>")

		fmt.Fprintf(&b, "<main class=\"crop-page\" data-signals=\"{crop: null, _dragging: false, _ratio: '', _layout: null, _pointerX: 0, _pointerY: 0}\" data-init=\"@get('%s/stream')\">", esc(base))
		fmt.Fprintf(&b, "<h1 class=\"crop-title\">%s</h1>", esc(title))

		// The stage is sized by crop.js to the displayed video box.
		fmt.Fprintf(&b, "<div class=\"crop-player\" data-crop-player data-on:cropresize=\"$_layout = evt.detail; @post('%[1]s/layout', {filterSignals: {include: /^_layout$/}})\" data-on:cropready=\"@post('%[1]s/default')\">", esc(base))
		if p.MediaURL != "" {
			fmt.Fprintf(&b, "<video class=\"crop-video\" src=\"%s\" controls playsinline preload=\"metadata\"></video>", esc(p.MediaURL))
		} else {
			b.WriteString("<video class=\"crop-video\" controls playsinline></video>")
		}
		fmt.Fprintf(&b, "<div class=\"crop-stage\" data-crop-stage data-on:pointermove__window__throttle.16ms=\"$_dragging && evt.buttons !== 0 && ($_pointerX = evt.clientX, $_pointerY = evt.clientY, @post('%[1]s/pointer/move', {filterSignals: {include: /^_pointer/}}))\" data-on:pointerup__window=\"$_dragging && ($_dragging = false, @post('%[1]s/pointer/up'))\">", esc(base))
		if _, err := io.WriteString(w, b.String()); err != nil {
			return err
		}
		b.Reset()

		if err := CropOverlay(p.Code, p.View).Render(ctx, w); err != nil {
			return err
		}
		if _, err := io.WriteString(w, "</div></div>"); err != nil {
			return err
		}

		if err := CropControls(p.Code, p.View, p.Names).Render(ctx, w); err != nil {
			return err
		}
		if err := CropReadout(p.View, p.Media).Render(ctx, w); err != nil {
			return err
		}

		if p.Help != nil {
			if help := p.Help.Render(); help != "" {
				fmt.Fprintf(&b, "<details class=\"crop-help\" title=\"%s\"><summary>Help</summary><div class=\"crop-help-body\">%s</div></details>", esc(p.Help.PlainText()), help)
			}
		}
		fmt.Fprintf(&b, "<button type=\"button\" class=\"crop-end\" data-on:click=\"@delete('%s')\">End session</button>", esc(base))
		b.WriteString("</main></body></html>")
		_, err := io.WriteString(w, b.String())
		return err
	})
}

// CropOverlay is the draggable crop rectangle, positioned in container
// pixels. It is present but hidden while no ratio is active.
func CropOverlay(code string, v crophub.View) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		style := "display:none"
		if v.Visible {
			style = fmt.Sprintf("display:block;left:%spx;top:%spx;width:%spx;height:%spx",
				px(v.Overlay.X), px(v.Overlay.Y), px(v.Overlay.Width), px(v.Overlay.Height))
		}
		class := "crop-overlay"
		if v.Dragging {
			class += " dragging"
		}
		_, err := fmt.Fprintf(w,
			"<div id=\"%s\" class=\"%s\" style=\"%s\" data-ratio=\"%s\" data-on:pointerdown__prevent=\"$_dragging = true; $_pointerX = evt.clientX; $_pointerY = evt.clientY; @post('/crop/%s/pointer/down', {filterSignals: {include: /^_pointer/}})\"></div>",
			OverlayID, class, style, esc(v.ActiveLabel), esc(code))
		return err
	})
}

// CropControls renders one button per ratio plus the cancel button. The
// button for the active ratio carries the "active" class.
func CropControls(code string, v crophub.View, names map[string]string) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		fmt.Fprintf(&b, "<div id=\"%s\" class=\"crop-controls\" role=\"toolbar\">", ControlsID)
		active := v.Result.AspectRatio
		for _, label := range v.Labels {
			class := "crop-ratio"
			if active != nil && active.Matches(label) {
				class += " active"
			}
			text := label
			if name, ok := names[label]; ok && name != "" && name != label {
				text = name + " (" + label + ")"
			}
			hint := ""
			if ar, err := crops.ParseAspectRatio(label); err == nil {
				hint = format.Ratio(ar.Value)
			}
			fmt.Fprintf(&b,
				"<button type=\"button\" class=\"%s\" data-label=\"%s\" title=\"%s\" data-on:click=\"$_ratio = '%s'; @post('/crop/%s/ratio', {filterSignals: {include: /^_ratio$/}})\">%s</button>",
				class, esc(label), esc(hint), esc(label), esc(code), esc(text))
		}
		cancel := "crop-cancel"
		if active == nil {
			cancel += " active"
		}
		fmt.Fprintf(&b, "<button type=\"button\" class=\"%s\" data-on:click=\"@post('/crop/%s/cancel')\">Cancel</button>", cancel, esc(code))
		b.WriteString("</div>")
		_, err := io.WriteString(w, b.String())
		return err
	})
}

// CropReadout shows the current selection in both coordinate spaces, the
// ffmpeg filter for it, and what is known about the media.
func CropReadout(v crophub.View, media *ffmpeg.ProbeResult) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		var b strings.Builder
		fmt.Fprintf(&b, "<dl id=\"%s\" class=\"crop-readout\">", ReadoutID)

		ratio := "none"
		if ar := v.Result.AspectRatio; ar != nil {
			ratio = ar.Label + " (" + format.Ratio(ar.Value) + ")"
		}
		row(&b, "ratio", "Ratio", ratio)
		if r := v.Result.Position.Player; r != nil {
			row(&b, "player", "Player", format.Rect(*r))
		}
		if r := v.Result.Position.Video; r != nil {
			row(&b, "video", "Video", format.Rect(*r))
		}
		if v.Filter != "" {
			row(&b, "filter", "Filter", v.Filter)
		}
		if media != nil {
			row(&b, "resolution", "Resolution", format.Resolution(media.Dimensions()))
			if media.Duration > 0 {
				row(&b, "duration", "Duration", format.Duration(media.Duration))
			}
			if media.Size > 0 {
				row(&b, "size", "Size", format.Bytes(media.Size))
			}
			if media.VideoCodec != "" {
				row(&b, "codec", "Codec", media.VideoCodec)
			}
		}
		b.WriteString("</dl>")
		_, err := io.WriteString(w, b.String())
		return err
	})
}

func row(b *strings.Builder, key, term, value string) {
	fmt.Fprintf(b, "<div data-field=\"%s\"><dt>%s</dt><dd>%s</dd></div>", key, esc(term), esc(value))
}

func px(v float64) string {
	return fmt.Sprintf("%.2f", v)
}

func esc(s string) string {
	return templ.EscapeString(s)
}
