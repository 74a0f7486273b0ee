package generator

import (
	"context"
	"os"
	"path/filepath"
)

// katexFontBase is the external source every bundled font file is fetched
// from when it is not already present in the output tree.
const katexFontBase = "https://cdn.jsdelivr.net/npm/katex@0.16.11/dist/fonts/"

// katexFonts is the fixed font bundle shipped with the KaTeX release the
// stylesheet targets. The list is hand-maintained against that version.
var katexFonts = []string{
	"KaTeX_AMS-Regular.ttf",
	"KaTeX_AMS-Regular.woff",
	"KaTeX_AMS-Regular.woff2",
	"KaTeX_Caligraphic-Bold.ttf",
	"KaTeX_Caligraphic-Bold.woff",
	"KaTeX_Caligraphic-Bold.woff2",
	"KaTeX_Caligraphic-Regular.ttf",
	"KaTeX_Caligraphic-Regular.woff",
	"KaTeX_Caligraphic-Regular.woff2",
	"KaTeX_Fraktur-Bold.ttf",
	"KaTeX_Fraktur-Bold.woff",
	"KaTeX_Fraktur-Bold.woff2",
	"KaTeX_Fraktur-Regular.ttf",
	"KaTeX_Fraktur-Regular.woff",
	"KaTeX_Fraktur-Regular.woff2",
	"KaTeX_Main-Bold.ttf",
	"KaTeX_Main-Bold.woff",
	"KaTeX_Main-Bold.woff2",
	"KaTeX_Main-BoldItalic.ttf",
	"KaTeX_Main-BoldItalic.woff",
	"KaTeX_Main-BoldItalic.woff2",
	"KaTeX_Main-Italic.ttf",
	"KaTeX_Main-Italic.woff",
	"KaTeX_Main-Italic.woff2",
	"KaTeX_Main-Regular.ttf",
	"KaTeX_Main-Regular.woff",
	"KaTeX_Main-Regular.woff2",
	"KaTeX_Math-BoldItalic.ttf",
	"KaTeX_Math-BoldItalic.woff",
	"KaTeX_Math-BoldItalic.woff2",
	"KaTeX_Math-Italic.ttf",
	"KaTeX_Math-Italic.woff",
	"KaTeX_Math-Italic.woff2",
	"KaTeX_SansSerif-Bold.ttf",
	"KaTeX_SansSerif-Bold.woff",
	"KaTeX_SansSerif-Bold.woff2",
	"KaTeX_SansSerif-Italic.ttf",
	"KaTeX_SansSerif-Italic.woff",
	"KaTeX_SansSerif-Italic.woff2",
	"KaTeX_SansSerif-Regular.ttf",
	"KaTeX_SansSerif-Regular.woff",
	"KaTeX_SansSerif-Regular.woff2",
	"KaTeX_Script-Regular.ttf",
	"KaTeX_Script-Regular.woff",
	"KaTeX_Script-Regular.woff2",
	"KaTeX_Size1-Regular.ttf",
	"KaTeX_Size1-Regular.woff",
	"KaTeX_Size1-Regular.woff2",
	"KaTeX_Size2-Regular.ttf",
	"KaTeX_Size2-Regular.woff",
	"KaTeX_Size2-Regular.woff2",
	"KaTeX_Size3-Regular.ttf",
	"KaTeX_Size3-Regular.woff",
	"KaTeX_Size3-Regular.woff2",
	"KaTeX_Size4-Regular.ttf",
	"KaTeX_Size4-Regular.woff",
	"KaTeX_Size4-Regular.woff2",
	"KaTeX_Typewriter-Regular.ttf",
	"KaTeX_Typewriter-Regular.woff",
	"KaTeX_Typewriter-Regular.woff2",
}

// downloadFonts fetches each missing font file independently. A failure is
// logged and skipped so the site still renders without every font present.
func (s *service) downloadFonts(ctx context.Context) (fetched, failed int) {
	for _, font := range katexFonts {
		target := filepath.Join(s.cfg.OutputDir, "assets", "fonts", font)
		if _, err := os.Stat(target); err == nil {
			continue
		}

		body, _, err := s.deps.Fetcher.Fetch(ctx, katexFontBase+font)
		if err != nil {
			s.logger.Warn("failed to download font", "font", font, "error", err)
			failed++
			continue
		}
		if err := s.writer.WriteFile("assets/fonts/"+font, body); err != nil {
			s.logger.Warn("failed to store font", "font", font, "error", err)
			failed++
			continue
		}
		fetched++
	}
	return fetched, failed
}
