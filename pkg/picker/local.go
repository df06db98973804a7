package picker

import (
	"context"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
)

// Default capture viewport.
const (
	DefaultViewportWidth  = 1280
	DefaultViewportHeight = 720
)

// extractJS collects visible clickable elements with their bounding boxes
// in viewport pixel space. Elements are deduplicated by rounded position.
const extractJS = `() => {
	const results = [];
	const seen = new Set();

	const selectors = [
		'a[href]', 'button', 'input', 'select', 'textarea',
		'[onclick]', '[role="button"]', '[role="link"]',
		'label', '.btn', '[type="submit"]'
	];

	function getSelector(el) {
		if (el.id) return '#' + CSS.escape(el.id);
		if (el.name) return el.tagName.toLowerCase() + '[name="' + el.name + '"]';
		if (el.dataset && el.dataset.testid) return '[data-testid="' + el.dataset.testid + '"]';

		const classes = Array.from(el.classList || []).filter(c => {
			try {
				return document.querySelectorAll('.' + CSS.escape(c)).length === 1;
			} catch { return false; }
		});
		if (classes.length) return '.' + CSS.escape(classes[0]);

		const parent = el.parentElement;
		if (!parent) return el.tagName.toLowerCase();
		const siblings = Array.from(parent.children).filter(c => c.tagName === el.tagName);
		const index = siblings.indexOf(el) + 1;
		return el.tagName.toLowerCase() + ':nth-of-type(' + index + ')';
	}

	for (const selector of selectors) {
		try {
			document.querySelectorAll(selector).forEach(el => {
				if (el.offsetParent === null && el.tagName !== 'BODY') return;

				const rect = el.getBoundingClientRect();
				if (rect.width < 5 || rect.height < 5) return;
				if (rect.bottom < 0 || rect.top > window.innerHeight) return;
				if (rect.right < 0 || rect.left > window.innerWidth) return;

				const key = Math.round(rect.x) + ',' + Math.round(rect.y);
				if (seen.has(key)) return;
				seen.add(key);

				results.push({
					selector: getSelector(el),
					tag: el.tagName.toLowerCase(),
					text: (el.textContent || '').trim().substring(0, 50),
					placeholder: el.placeholder || '',
					bbox: {
						x: Math.round(rect.x),
						y: Math.round(rect.y),
						width: Math.round(rect.width),
						height: Math.round(rect.height)
					}
				});
			});
		} catch {}
	}
	return results;
}`

// LocalBackend captures pages with a headless browser on this machine,
// serving the same contract as the remote picker service. The browser is
// launched lazily on the first LoadPage.
type LocalBackend struct {
	width, height int

	browser *rod.Browser
	page    *rod.Page
}

// NewLocalBackend creates a local capture backend with the given viewport.
// Non-positive dimensions fall back to the defaults.
func NewLocalBackend(width, height int) *LocalBackend {
	if width <= 0 {
		width = DefaultViewportWidth
	}
	if height <= 0 {
		height = DefaultViewportHeight
	}
	return &LocalBackend{width: width, height: height}
}

func (b *LocalBackend) ensureBrowser() error {
	if b.browser != nil {
		return nil
	}
	path, has := launcher.LookPath()
	if !has {
		return fmt.Errorf("no chromium-compatible browser found in PATH")
	}
	u, err := launcher.New().Bin(path).Headless(true).Launch()
	if err != nil {
		return fmt.Errorf("launch browser: %w", err)
	}
	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		return fmt.Errorf("connect to browser: %w", err)
	}
	b.browser = browser
	return nil
}

// LoadPage navigates to url and returns the snapshot.
func (b *LocalBackend) LoadPage(ctx context.Context, url string) (capture *Capture, err error) {
	if err := b.ensureBrowser(); err != nil {
		return nil, err
	}
	err = rod.Try(func() {
		if b.page == nil {
			b.page = b.browser.MustPage()
			b.page.MustSetViewport(b.width, b.height, 1, false)
		}
		page := b.page.Context(ctx)
		page.MustNavigate(url)
		page.MustWaitLoad()
		// Settle network activity but don't hang on persistent connections.
		page.Timeout(5 * time.Second).WaitRequestIdle(500*time.Millisecond, nil, nil, nil)()
		capture = b.snapshot(page)
	})
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", url, err)
	}
	return capture, nil
}

// Scroll moves the last-loaded page and returns the refreshed snapshot.
func (b *LocalBackend) Scroll(ctx context.Context, direction string, amount int) (capture *Capture, err error) {
	if b.page == nil {
		return nil, fmt.Errorf("no page loaded")
	}
	delta := amount
	if direction == "up" {
		delta = -amount
	}
	err = rod.Try(func() {
		page := b.page.Context(ctx)
		page.MustEval(`(dy) => window.scrollBy(0, dy)`, delta)
		// Give lazy-loaded content a moment to render.
		time.Sleep(500 * time.Millisecond)
		capture = b.snapshot(page)
	})
	if err != nil {
		return nil, fmt.Errorf("scroll %s by %d: %w", direction, amount, err)
	}
	return capture, nil
}

// snapshot runs inside rod.Try; Must failures propagate as the Try error.
func (b *LocalBackend) snapshot(page *rod.Page) *Capture {
	var elements []Element
	for _, v := range page.MustEval(extractJS).Arr() {
		elements = append(elements, Element{
			Selector:    v.Get("selector").String(),
			Tag:         v.Get("tag").String(),
			Text:        v.Get("text").String(),
			Placeholder: v.Get("placeholder").String(),
			Box: BoundingBox{
				X:      v.Get("bbox.x").Num(),
				Y:      v.Get("bbox.y").Num(),
				Width:  v.Get("bbox.width").Num(),
				Height: v.Get("bbox.height").Num(),
			},
		})
	}

	data := page.MustScreenshot()

	return &Capture{
		ViewportSize: Size{Width: float64(b.width), Height: float64(b.height)},
		Screenshot:   base64.StdEncoding.EncodeToString(data),
		Elements:     elements,
	}
}

// Close shuts down the browser. Safe to call when nothing was launched.
func (b *LocalBackend) Close(ctx context.Context) error {
	b.page = nil
	if b.browser == nil {
		return nil
	}
	err := b.browser.Close()
	b.browser = nil
	return err
}
