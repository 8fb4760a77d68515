package ui

import (
	"context"
	"embed"
	"html"
	"io"
	"io/fs"

	"github.com/a-h/templ"
)

//go:embed static
var staticFS embed.FS

// Static returns the embedded stylesheet and script, rooted so that
// "app.js" resolves to static/app.js.
func Static() (fs.FS, error) {
	return fs.Sub(staticFS, "static")
}

// PageData carries the values the gallery page interpolates.
type PageData struct {
	Title     string
	HealthURL string
	BucketURL string
}

// Layout renders a full HTML page with a title and body component.
func Layout(title string, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, "<!doctype html><html lang=\"en\"><head><meta charset=\"utf-8\">")
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, "<meta name=\"viewport\" content=\"width=device-width, initial-scale=1\">")
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, "<title>"+html.EscapeString(title)+"</title>")
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, "<link rel=\"stylesheet\" href=\"/static/app.css\"></head><body>")
		if err != nil {
			return err
		}

		if err := body.Render(ctx, w); err != nil {
			return err
		}

		_, err = io.WriteString(w, "<script src=\"/static/app.js\" defer></script></body></html>")
		return err
	})
}

// header renders the brand and the links to the health probe and bucket.
func header(data PageData) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, "<header><div class=\"brand\"><span class=\"logo\" aria-hidden=\"true\"></span><h1>")
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, html.EscapeString(data.Title))
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, "</h1></div><div class=\"links\">")
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, "<a href=\""+html.EscapeString(data.HealthURL)+"\" target=\"_blank\" rel=\"noopener\">Health</a>")
		if err != nil {
			return err
		}
		if data.BucketURL != "" {
			_, err = io.WriteString(w, "<a href=\""+html.EscapeString(data.BucketURL)+"\" target=\"_blank\" rel=\"noopener\">Bucket</a>")
			if err != nil {
				return err
			}
		}
		_, err = io.WriteString(w, "</div></header>")
		return err
	})
}

const uploadSection = `<section class="hero">
<h2>Upload a file</h2>
<div id="dropzone" tabindex="0" role="button" aria-label="Drop a file here or click to choose one">
<span>Drag and drop here, or</span>
<label for="file" class="btn-primary pick">Choose file</label>
<input id="file" type="file" accept="image/*">
<input id="note" type="text" placeholder="Note (optional)...">
<button id="btnUpload" class="btn-primary">Upload</button>
</div>
<div id="msg" class="msg"></div>
</section>
<section>
<h2 class="section-title">Uploaded images</h2>
<div id="gallery" class="grid" aria-live="polite"></div>
</section>`

// GalleryPage renders the single-page gallery. Records are fetched by the
// browser from /api/db/list; the server renders only the shell.
func GalleryPage(data PageData) templ.Component {
	if data.Title == "" {
		data.Title = "Gallery"
	}
	if data.HealthURL == "" {
		data.HealthURL = "/health"
	}

	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		_, err := io.WriteString(w, "<div class=\"container\">")
		if err != nil {
			return err
		}
		if err := header(data).Render(ctx, w); err != nil {
			return err
		}
		_, err = io.WriteString(w, uploadSection)
		if err != nil {
			return err
		}
		_, err = io.WriteString(w, "</div><div id=\"toast\" class=\"toast\" role=\"status\" aria-live=\"polite\"></div>")
		return err
	})

	return Layout(data.Title, body)
}
