package config

import (
	"github.com/gompdf/cvpager/internal/model"
	"github.com/gompdf/cvpager/internal/pagination"
	"github.com/gompdf/cvpager/internal/style"
)

func builtinTemplates() []Template {
	base := pagination.DefaultGeometry()

	minimal := base
	minimal.Padding = pagination.Padding{Top: 56, Right: 64, Bottom: 56, Left: 64}

	executive := base
	executive.Padding = pagination.Padding{Top: 40, Right: 52, Bottom: 40, Left: 52}

	sidebar := base
	sidebar.Padding = pagination.Padding{Top: 40, Right: 36, Bottom: 40, Left: 28}
	sidebar.Sidebar = pagination.Sidebar{Width: 240, PaddingTop: 40, PaddingBottom: 40, PaddingX: 20}

	return []Template{
		{
			Name:        "default",
			Description: "Single column with accent section rules",
			Layout:      model.LayoutSingle,
			Geometry:    base,
			Typography:  style.DefaultTypography(),
			Theme:       style.DefaultTheme(),
		},
		{
			Name:        "minimalist",
			Description: "Wide margins, no rules, small headings",
			Layout:      model.LayoutSingle,
			Geometry:    minimal,
			Typography: style.Typography{
				FontFamily:  "Helvetica, Arial, sans-serif",
				FontSize:    13,
				LineHeight:  1.5,
				AccentColor: "#333333",
			},
			Theme: style.Theme{HeadingScale: 1.1, NameScale: 1.9, SectionGap: 22, ItemGap: 12},
		},
		{
			Name:        "executive",
			Description: "Serif type with uppercase ruled headings",
			Layout:      model.LayoutSingle,
			Geometry:    executive,
			Typography: style.Typography{
				FontFamily:  "Georgia, 'Times New Roman', serif",
				FontSize:    14,
				LineHeight:  1.35,
				AccentColor: "#0b2545",
			},
			Theme: style.Theme{
				HeadingScale:   1.15,
				NameScale:      2.4,
				SectionGap:     16,
				ItemGap:        10,
				UppercaseTitle: true,
				TitleRule:      true,
			},
		},
		{
			Name:        "timeline",
			Description: "Items hang off an accent rail",
			Layout:      model.LayoutSingle,
			Geometry:    base,
			Typography: style.Typography{
				FontFamily:  "Helvetica, Arial, sans-serif",
				FontSize:    13.5,
				LineHeight:  1.45,
				AccentColor: "#2a7f62",
			},
			Theme: style.Theme{HeadingScale: 1.2, NameScale: 2.1, SectionGap: 18, ItemGap: 14, TimelineRail: true},
		},
		{
			Name:        "sidebar",
			Description: "Two columns with a tinted sidebar",
			Layout:      model.LayoutDual,
			Geometry:    sidebar,
			Typography: style.Typography{
				FontFamily:  "Helvetica, Arial, sans-serif",
				FontSize:    13,
				LineHeight:  1.4,
				AccentColor: "#5b3a8c",
			},
			Theme: style.Theme{
				HeadingScale:   1.15,
				NameScale:      1.9,
				SectionGap:     16,
				ItemGap:        10,
				UppercaseTitle: true,
				SidebarColor:   "#f1ecf7",
			},
			SidebarSections: []string{"skills", "languages", "certifications", "interests", "links"},
			HeaderInSidebar: true,
		},
	}
}
