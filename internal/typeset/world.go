// Package typeset stands in for the embedded typesetting engine the
// original program delegated to: it synthesizes a single virtual source
// from a theme prefix plus converted content (the "World" below), compiles
// that source into a document frame, and rasterizes frames to PNG. Font
// loading follows the pattern the headless-term screenshot renderer uses:
// scan for real font files and fall back to basicfont.Face7x13 when none
// are usable.
package typeset

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/font/opentype"
)

// FontCatalog is the one-time, process-wide font scan result shared across
// rebuilds (SPEC_FULL §4.B: "a one-time font catalog scanned from the host
// filesystem, shared across rebuilds").
type FontCatalog struct {
	Body  font.Face
	Mono  font.Face
	bytes [][]byte // keep backing storage alive for the lifetime of the faces
}

// ScanFonts walks dirs looking for .ttf/.otf files, picking the first
// plausible body font and the first font whose filename suggests a
// monospace family (contains "mono" or "code"). Neither match is fatal:
// basicfont.Face7x13 covers both roles when nothing is found, exactly the
// way screenshot.go falls back when FontFinder comes up empty.
func ScanFonts(dirs []string, sizePt float64) (*FontCatalog, []string) {
	cat := &FontCatalog{}
	var warnings []string
	var bodyPath, monoPath string

	for _, dir := range dirs {
		_ = filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
			if err != nil || d.IsDir() {
				return nil
			}
			ext := strings.ToLower(filepath.Ext(path))
			if ext != ".ttf" && ext != ".otf" {
				return nil
			}
			lower := strings.ToLower(path)
			if monoPath == "" && (strings.Contains(lower, "mono") || strings.Contains(lower, "code")) {
				monoPath = path
			}
			if bodyPath == "" {
				bodyPath = path
			}
			return nil
		})
	}

	if bodyPath != "" {
		if face, data, err := loadFace(bodyPath, sizePt); err == nil {
			cat.Body = face
			cat.bytes = append(cat.bytes, data)
		} else {
			warnings = append(warnings, fmt.Sprintf("unable to load body font %q: %v", bodyPath, err))
		}
	}
	if monoPath != "" {
		if face, data, err := loadFace(monoPath, sizePt); err == nil {
			cat.Mono = face
			cat.bytes = append(cat.bytes, data)
		} else {
			warnings = append(warnings, fmt.Sprintf("unable to load monospace font %q: %v", monoPath, err))
		}
	}
	if cat.Body == nil {
		cat.Body = basicfont.Face7x13
		warnings = append(warnings, "no CJK-capable or scanned body font found; using the built-in bitmap font")
	}
	if cat.Mono == nil {
		cat.Mono = basicfont.Face7x13
	}
	return cat, warnings
}

func loadFace(path string, sizePt float64) (font.Face, []byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, err
	}
	ft, err := opentype.Parse(data)
	if err != nil {
		return nil, nil, err
	}
	face, err := opentype.NewFace(ft, &opentype.FaceOptions{
		Size:    sizePt,
		DPI:     72,
		Hinting: font.HintingFull,
	})
	if err != nil {
		return nil, nil, err
	}
	return face, data, nil
}

// World synthesizes the single virtual main source the compiler consumes:
// {theme_prefix}\n{content}\n. ContentOffset reports where {content} begins
// so the visual-line extractor can translate source-span offsets in the
// main source back into offsets within the converted content alone.
type World struct {
	ThemePrefix string
	Content     string
	PageWidthPt float64
	Fonts       *FontCatalog
}

func NewWorld(themePrefix, content string, pageWidthPt float64, fonts *FontCatalog) *World {
	return &World{ThemePrefix: themePrefix, Content: content, PageWidthPt: pageWidthPt, Fonts: fonts}
}

// MainSource returns the synthesized source the compiler parses.
func (w *World) MainSource() string {
	return w.ThemePrefix + "\n" + w.Content + "\n"
}

// ContentOffset returns the byte offset within MainSource() where Content
// begins.
func (w *World) ContentOffset() int {
	return len(w.ThemePrefix) + 1
}
