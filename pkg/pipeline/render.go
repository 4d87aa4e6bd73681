package pipeline

import (
	"context"
	"strings"

	gerrors "github.com/matzehuels/groot/pkg/errors"
	treeio "github.com/matzehuels/groot/pkg/io"
	"github.com/matzehuels/groot/pkg/render/nodelink"
	"github.com/matzehuels/groot/pkg/render/textart"
	"github.com/matzehuels/groot/pkg/tree"
)

// Render generates output artifacts in the requested formats, without
// caching.
func Render(ctx context.Context, t *tree.Tree, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}

	artifacts := make(map[string][]byte, len(opts.Formats))
	var dot string
	for _, format := range opts.Formats {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if dot == "" && needsDOT(format) {
			dot = nodelink.ToDOT(t, nodelink.Options{Detailed: opts.Detailed})
		}
		data, err := renderFormat(ctx, t, dot, format, opts)
		if err != nil {
			return nil, gerrors.Wrap(codeOf(err), err, "render %s", format)
		}
		artifacts[format] = data
	}
	return artifacts, nil
}

// RenderFormat renders a single format.
func RenderFormat(ctx context.Context, t *tree.Tree, format string, opts Options) ([]byte, error) {
	opts.Formats = []string{format}
	artifacts, err := Render(ctx, t, opts)
	if err != nil {
		return nil, err
	}
	return artifacts[format], nil
}

func needsDOT(format string) bool {
	switch format {
	case FormatDOT, FormatSVG, FormatPNG, FormatPDF:
		return true
	}
	return false
}

func renderFormat(ctx context.Context, t *tree.Tree, dot, format string, opts Options) ([]byte, error) {
	switch format {
	case FormatText:
		var b strings.Builder
		b.WriteString(textart.Draw(t, opts.TextOptions()))
		if t.Len() > 0 {
			b.WriteByte('\n')
		}
		return []byte(b.String()), nil
	case FormatDOT:
		return []byte(dot), nil
	case FormatSVG:
		return nodelink.RenderSVG(ctx, dot)
	case FormatPNG:
		return nodelink.RenderPNG(ctx, dot)
	case FormatPDF:
		return nodelink.RenderPDF(ctx, dot)
	case FormatYAML, FormatJSON, FormatTOML:
		return treeio.Marshal(t.ToMapping(), treeio.Format(format))
	}
	return nil, gerrors.New(gerrors.ErrCodeInvalidFormat, "unsupported format: %s", format)
}

func codeOf(err error) gerrors.Code {
	if c := gerrors.GetCode(err); c != "" {
		return c
	}
	return gerrors.ErrCodeInternal
}
