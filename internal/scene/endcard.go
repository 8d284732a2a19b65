package scene

import (
	"encoding/base64"
	"log"
	"sync"

	qrcode "github.com/skip2/go-qrcode"
)

// Endcard closes a video with a call-to-action and a QR code pointing at
// the scene's "url" prop.
type Endcard struct {
	mu sync.Mutex
	qr map[string]string // url -> cached data URI, identical on every frame
}

const qrSizePx = 256

func (e *Endcard) Render(ctx Context) Node {
	props := map[string]any{
		"title":    ctx.Scene.Title,
		"progress": appearProgress(ctx),
		"color":    ctx.Style.AccentColor,
	}

	if url, ok := ctx.Scene.Props["url"].(string); ok && url != "" {
		props["url"] = url
		if qr := e.qrFor(url); qr != "" {
			props["qr"] = qr
		}
	}
	return Node{Component: "Endcard", Props: props}
}

func (e *Endcard) qrFor(url string) string {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.qr == nil {
		e.qr = make(map[string]string)
	}
	if qr, ok := e.qr[url]; ok {
		return qr
	}

	qr := ""
	png, err := qrcode.Encode(url, qrcode.Medium, qrSizePx)
	if err != nil {
		log.Printf("[!] QR code generation failed for %q: %v", url, err)
	} else {
		qr = "data:image/png;base64," + base64.StdEncoding.EncodeToString(png)
	}
	e.qr[url] = qr
	return qr
}
