package media

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/goliatone/go-urlkit"

	"github.com/goliatone/go-activity-finder/internal/runtimeconfig"
)

// ErrImageStyleNotFound is returned when a style has not been configured.
var ErrImageStyleNotFound = errors.New("media: image style not found")

const (
	stylesGroup = "files"
	styleRoute  = "style"
	sourceRoute = "source"
	tokenQuery  = "itok"
	tokenLength = 8
)

// ImageStyles builds derivative URLs for the configured image styles.
type ImageStyles struct {
	manager *urlkit.RouteManager
	styles  []string
}

// NewImageStyles registers the style and source routes under cfg.BaseURL.
func NewImageStyles(cfg runtimeconfig.MediaConfig) (*ImageStyles, error) {
	base := strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	if base == "" {
		return nil, runtimeconfig.ErrMediaBaseURLRequired
	}
	files := "/" + strings.Trim(strings.TrimSpace(cfg.FilesPath), "/")
	if files == "/" {
		files = ""
	}

	styles := make([]string, 0, len(cfg.Styles)+2)
	for _, name := range append(append([]string(nil), cfg.Styles...), cfg.MobileStyle, cfg.DesktopStyle) {
		name = strings.TrimSpace(name)
		if name != "" && !slices.Contains(styles, name) {
			styles = append(styles, name)
		}
	}

	manager := urlkit.NewRouteManager(&urlkit.Config{
		Groups: []urlkit.GroupConfig{
			{
				Name:    stylesGroup,
				BaseURL: base,
				Paths: map[string]string{
					styleRoute:  files + "/styles/:style/:scheme/:path",
					sourceRoute: files + "/:path",
				},
			},
		},
	})

	return &ImageStyles{manager: manager, styles: styles}, nil
}

// Names lists the configured styles.
func (s *ImageStyles) Names() []string {
	return append([]string(nil), s.styles...)
}

// Has reports whether style is configured.
func (s *ImageStyles) Has(style string) bool {
	return slices.Contains(s.styles, strings.TrimSpace(style))
}

// URL returns the derivative URL of uri for style.
func (s *ImageStyles) URL(style, uri string) (string, error) {
	style = strings.TrimSpace(style)
	if !s.Has(style) {
		return "", fmt.Errorf("%w: %q", ErrImageStyleNotFound, style)
	}
	scheme, target, err := SplitFileURI(uri)
	if err != nil {
		return "", err
	}
	builder, err := s.builder(styleRoute)
	if err != nil {
		return "", err
	}
	builder.WithParam("style", style)
	builder.WithParam("scheme", scheme)
	builder.WithParam("path", target)
	builder.WithQuery(tokenQuery, StyleToken(style, uri))
	return builder.Build()
}

// SourceURL returns the public URL of the original file.
func (s *ImageStyles) SourceURL(uri string) (string, error) {
	_, target, err := SplitFileURI(uri)
	if err != nil {
		return "", err
	}
	builder, err := s.builder(sourceRoute)
	if err != nil {
		return "", err
	}
	builder.WithParam("path", target)
	return builder.Build()
}

// builder recovers from urlkit lookups that panic on unknown groups or routes.
func (s *ImageStyles) builder(route string) (builder *urlkit.Builder, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			builder = nil
			err = fmt.Errorf("media: urlkit route %q unavailable: %v", route, rec)
		}
	}()
	return s.manager.Group(stylesGroup).Builder(route), nil
}

// StyleToken derives the derivative access token for style and uri.
func StyleToken(style, uri string) string {
	sum := sha256.Sum256([]byte(style + ":" + uri))
	return hex.EncodeToString(sum[:])[:tokenLength]
}
