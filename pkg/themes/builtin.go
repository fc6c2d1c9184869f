package themes

import theme "github.com/goliatone/go-theme"

func printVariant() theme.Variant {
	return theme.Variant{
		Tokens: map[string]string{
			"page-padding":   "0",
			"section-gap":    "14px",
			"base-font-size": "10.5pt",
		},
	}
}

// Builtin returns fresh manifests for the modern, classic and creative themes.
func Builtin() []*theme.Manifest {
	return []*theme.Manifest{
		manifest(Modern, map[string]string{
			"font-family":    "'Inter', 'Segoe UI', Arial, sans-serif",
			"heading-font":   "'Inter', 'Segoe UI', Arial, sans-serif",
			"text-color":     "#1f2937",
			"muted-color":    "#6b7280",
			"accent-color":   "#2563eb",
			"rule-color":     "#e5e7eb",
			"page-padding":   "32px",
			"section-gap":    "20px",
			"base-font-size": "11pt",
		}),
		manifest(Classic, map[string]string{
			"font-family":    "Georgia, 'Times New Roman', serif",
			"heading-font":   "Georgia, 'Times New Roman', serif",
			"text-color":     "#111111",
			"muted-color":    "#444444",
			"accent-color":   "#111111",
			"rule-color":     "#111111",
			"page-padding":   "36px",
			"section-gap":    "18px",
			"base-font-size": "11pt",
		}),
		manifest(Creative, map[string]string{
			"font-family":    "'Poppins', 'Helvetica Neue', Arial, sans-serif",
			"heading-font":   "'Poppins', 'Helvetica Neue', Arial, sans-serif",
			"text-color":     "#1e1b4b",
			"muted-color":    "#6d28d9",
			"accent-color":   "#db2777",
			"rule-color":     "#f5d0fe",
			"page-padding":   "28px",
			"section-gap":    "22px",
			"base-font-size": "11pt",
		}),
	}
}

func manifest(name string, tokens map[string]string) *theme.Manifest {
	return &theme.Manifest{
		Name:    name,
		Version: "1.0.0",
		Tokens:  tokens,
		Templates: map[string]string{
			DocumentPartial: "document.tmpl",
		},
		Assets: theme.Assets{
			Prefix: "/assets/themes/" + name,
			Files: map[string]string{
				"stylesheet": "resume.css",
			},
		},
		Variants: map[string]theme.Variant{
			PrintVariant: printVariant(),
		},
	}
}
