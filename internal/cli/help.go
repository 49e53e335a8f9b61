package cli

import (
	"fmt"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/lipgloss"
)

var (
	helpDescStyle = lipgloss.NewStyle().
			Foreground(accentColor).
			Italic(true)

	helpFlagStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00AA00")).
			Bold(true)

	helpArgStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00AAAA")).
			Bold(true)

	helpDefaultStyle = lipgloss.NewStyle().
				Foreground(mutedColor).
				Italic(true)
)

// StyledHelpPrinter renders kong help for the selected command with lipgloss
// styling.
func StyledHelpPrinter(description string) kong.HelpPrinter {
	return func(_ kong.HelpOptions, ctx *kong.Context) error {
		node := ctx.Selected()
		if node == nil {
			node = ctx.Model.Node
		}

		var sb strings.Builder

		sb.WriteString(TitleStyle.Render(ctx.Model.Name))
		sb.WriteString("\n")
		help := node.Help
		if node == ctx.Model.Node {
			help = description
		}
		if help != "" {
			sb.WriteString(helpDescStyle.Render(help))
			sb.WriteString("\n")
		}

		sb.WriteString(SectionStyle.Render("Usage:"))
		sb.WriteString("\n  ")
		sb.WriteString(node.Path())
		if len(node.Flags) > 0 {
			sb.WriteString(" [flags]")
		}
		for _, arg := range node.Positional {
			sb.WriteString(" ")
			sb.WriteString(arg.Summary())
		}
		if len(node.Children) > 0 {
			sb.WriteString(" <command>")
		}
		sb.WriteString("\n")

		if cmds := visibleChildren(node); len(cmds) > 0 {
			sb.WriteString(SectionStyle.Render("Commands:"))
			sb.WriteString("\n")
			for _, c := range cmds {
				sb.WriteString("  ")
				sb.WriteString(helpArgStyle.Render(c.Name))
				sb.WriteString("  ")
				sb.WriteString(c.Help)
				sb.WriteString("\n")
			}
		}

		if len(node.Positional) > 0 {
			sb.WriteString(SectionStyle.Render("Arguments:"))
			sb.WriteString("\n")
			for _, arg := range node.Positional {
				sb.WriteString("  ")
				sb.WriteString(helpArgStyle.Render(arg.Summary()))
				if arg.Help != "" {
					sb.WriteString("  ")
					sb.WriteString(arg.Help)
				}
				sb.WriteString("\n")
			}
		}

		sb.WriteString(SectionStyle.Render("Flags:"))
		sb.WriteString("\n")
		for _, f := range collectFlags(node) {
			sb.WriteString("  ")
			sb.WriteString(helpFlagStyle.Render(f.flags))
			if f.help != "" {
				sb.WriteString("  ")
				sb.WriteString(f.help)
			}
			if f.defaultVal != "" {
				sb.WriteString(" ")
				sb.WriteString(helpDefaultStyle.Render("(default: " + f.defaultVal + ")"))
			}
			sb.WriteString("\n")
		}

		sb.WriteString("\n")
		fmt.Fprint(ctx.Stdout, sb.String())
		return nil
	}
}

type flag struct {
	flags      string
	help       string
	defaultVal string
}

func visibleChildren(node *kong.Node) []*kong.Node {
	var out []*kong.Node
	for _, c := range node.Children {
		if !c.Hidden {
			out = append(out, c)
		}
	}
	return out
}

// collectFlags lists the flags of node and its ancestors, help first.
func collectFlags(node *kong.Node) []flag {
	flags := []flag{{flags: "-h, --help", help: "Show context-sensitive help."}}

	for n := node; n != nil; n = n.Parent {
		for _, f := range n.Flags {
			if f.Name == "help" || f.Hidden {
				continue
			}

			flagStr := "--" + f.Name
			if f.Short != 0 {
				flagStr = fmt.Sprintf("-%c, --%s", f.Short, f.Name)
			}
			if !f.IsBool() && f.PlaceHolder != "" {
				flagStr += "=" + strings.ToUpper(f.PlaceHolder)
			}

			var def string
			if f.HasDefault {
				def = f.Default
			}
			flags = append(flags, flag{flags: flagStr, help: f.Help, defaultVal: def})
		}
	}

	return flags
}
