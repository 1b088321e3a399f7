package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/urfave/cli/v2"

	"listing_wizard_v1_202610/internal/schema"
	"listing_wizard_v1_202610/internal/wizard"
)

func main() {
	if err := newApp(os.Stdout).Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		var exit cli.ExitCoder
		if errors.As(err, &exit) {
			os.Exit(exit.ExitCode())
		}
		os.Exit(1)
	}
}

func newApp(out io.Writer) *cli.App {
	fileFlag := &cli.StringFlag{
		Name:    "file",
		Aliases: []string{"f"},
		Usage:   "目录文件路径，为空时使用内置目录",
	}

	return &cli.App{
		Name:      "schemactl",
		Usage:     "分类目录检查工具",
		Writer:    out,
		ErrWriter: out,
		// 退出码由 main 处理
		ExitErrHandler: func(*cli.Context, error) {},
		Commands: []*cli.Command{
			{
				Name:      "lint",
				Usage:     "校验目录文件，输出所有问题",
				ArgsUsage: "<file>",
				Action: func(c *cli.Context) error {
					if c.NArg() != 1 {
						return cli.Exit("用法: schemactl lint <file>", 2)
					}
					return lint(out, c.Args().First())
				},
			},
			{
				Name:  "categories",
				Usage: "列出分类与子分类",
				Flags: []cli.Flag{fileFlag},
				Action: func(c *cli.Context) error {
					catalog, err := loadCatalog(c.String("file"))
					if err != nil {
						return err
					}
					printCategories(out, catalog)
					return nil
				},
			},
			{
				Name:  "fields",
				Usage: "按给定取值解析子分类的字段列表",
				Flags: []cli.Flag{
					fileFlag,
					&cli.StringFlag{Name: "category", Required: true, Usage: "分类ID"},
					&cli.StringFlag{Name: "subcategory", Required: true, Usage: "子分类ID"},
					&cli.StringSliceFlag{Name: "set", Usage: "字段取值 name=value，可重复"},
					&cli.BoolFlag{Name: "json", Usage: "输出 JSON"},
				},
				Action: func(c *cli.Context) error {
					catalog, err := loadCatalog(c.String("file"))
					if err != nil {
						return err
					}
					sub, ok := catalog.GetSubcategoryConfig(c.String("category"), c.String("subcategory"))
					if !ok {
						return cli.Exit(fmt.Sprintf("子分类 %s/%s 不存在", c.String("category"), c.String("subcategory")), 1)
					}

					bag, err := parseAssignments(sub, c.StringSlice("set"))
					if err != nil {
						return cli.Exit(err.Error(), 2)
					}

					fields := wizard.Resolve(sub, bag)
					if c.Bool("json") {
						enc := json.NewEncoder(out)
						enc.SetIndent("", "  ")
						return enc.Encode(fields)
					}
					printFields(out, fields)
					return nil
				},
			},
		},
	}
}

// ==================== 子命令 ====================

func lint(out io.Writer, path string) error {
	catalog, err := schema.LoadFile(path)
	if err != nil {
		problems := splitErrors(err)
		for _, p := range problems {
			fmt.Fprintf(out, "  - %v\n", p)
		}
		return cli.Exit(fmt.Sprintf("%s: %d 个问题", path, len(problems)), 1)
	}

	cats, subs, attrs := catalog.Stats()
	fmt.Fprintf(out, "%s: OK (%d 个分类, %d 个子分类, %d 个字段)\n", path, cats, subs, attrs)
	return nil
}

func printCategories(out io.Writer, catalog *schema.Catalog) {
	for _, cat := range catalog.GetCategories() {
		fmt.Fprintf(out, "%s\t%s\n", cat.ID, cat.Name)
		for _, sub := range catalog.GetSubcategories(cat.ID) {
			fmt.Fprintf(out, "  %s\t%s\t%d 个字段\n", sub.ID, sub.Name, len(sub.Attributes))
		}
	}
}

func printFields(out io.Writer, fields []wizard.ResolvedField) {
	for i := range fields {
		f := &fields[i]
		state := "enabled"
		if !f.Enabled {
			state = "disabled"
		}
		required := ""
		if f.Descriptor.Required {
			required = " *"
		}
		fmt.Fprintf(out, "%s%s\t%s\t%s", f.Name(), required, f.Descriptor.Kind, state)
		if len(f.EffectiveOptions) > 0 {
			fmt.Fprintf(out, "\t[%s]", strings.Join(f.EffectiveOptions, ", "))
		}
		fmt.Fprintln(out)
	}
}

// ==================== 工具函数 ====================

func loadCatalog(path string) (*schema.Catalog, error) {
	if path == "" {
		return schema.Default(), nil
	}
	return schema.LoadFile(path)
}

// parseAssignments 按字段类型把 name=value 转成取值
func parseAssignments(sub *schema.Subcategory, assignments []string) (wizard.ValueBag, error) {
	bag := make(wizard.ValueBag, len(assignments))
	for _, a := range assignments {
		name, raw, ok := strings.Cut(a, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("无效的取值 %q，应为 name=value", a)
		}

		d, ok := sub.Attribute(name)
		if !ok {
			return nil, fmt.Errorf("子分类 %s 没有字段 %q", sub.ID, name)
		}

		switch d.Kind {
		case schema.KindNumber:
			n, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				return nil, fmt.Errorf("字段 %s 需要数字: %q", name, raw)
			}
			bag[name] = n
		case schema.KindToggle:
			b, err := strconv.ParseBool(raw)
			if err != nil {
				return nil, fmt.Errorf("字段 %s 需要 true/false: %q", name, raw)
			}
			bag[name] = b
		default:
			bag[name] = raw
		}
	}
	return bag, nil
}

// splitErrors 展开 errors.Join 的结果
func splitErrors(err error) []error {
	var joined interface{ Unwrap() []error }
	if errors.As(err, &joined) {
		return joined.Unwrap()
	}
	return []error{err}
}
