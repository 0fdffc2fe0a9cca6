// blogctl 博客数据维护命令:生成示例数据、清空、统计、内容转换和导入
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"text/tabwriter"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"jbt-blog/config"
	"jbt-blog/internal/database"
	"jbt-blog/internal/logger"
	"jbt-blog/internal/service"
)

const usage = `usage: blogctl [-config path] <command> [flags]

commands:
  seed              创建示例分类、标签和文章
  clear -yes        删除全部文章、分类和标签
  stats             输出内容统计
  convert           把HTML格式的文章内容转换为Markdown
  import [-url URL] 导入指定RSS/Atom源,未指定时导入所有启用的源
  load -dir DIR [-pattern *.md]
                    导入目录下带front matter的Markdown文件,同名文章覆盖
`

var errUsage = errors.New("invalid usage")

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprint(os.Stderr, usage)
			os.Exit(2)
		}
		fmt.Fprintf(os.Stderr, "blogctl: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	fs := flag.NewFlagSet("blogctl", flag.ContinueOnError)
	fs.SetOutput(stderr)
	configPath := fs.String("config", "config/config.yaml", "配置文件路径")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if fs.NArg() == 0 {
		return errUsage
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	log := logger.NewWithWriter(cfg.Log, stderr)

	db, err := database.Open(cfg.Database, log)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer database.Close(db)

	cmd, rest := fs.Arg(0), fs.Args()[1:]
	switch cmd {
	case "seed":
		return runSeed(ctx, db, stdout)
	case "clear":
		return runClear(ctx, db, rest, stdout, stderr)
	case "stats":
		return runStats(ctx, db, cfg, stdout)
	case "convert":
		return runConvert(ctx, db, stdout)
	case "import":
		return runImport(ctx, db, log, rest, stdout, stderr)
	case "load":
		return runLoad(ctx, db, rest, stdout, stderr)
	default:
		fmt.Fprintf(stderr, "unknown command %q\n", cmd)
		return errUsage
	}
}

func runSeed(ctx context.Context, db *gorm.DB, out io.Writer) error {
	result, err := service.NewSeedService(db, nil).Seed(ctx)
	if err != nil {
		return fmt.Errorf("seed: %w", err)
	}
	fmt.Fprintf(out, "seeded: %d categories, %d tags, %d new articles\n", result.Categories, result.Tags, result.Articles)
	return nil
}

func runClear(ctx context.Context, db *gorm.DB, args []string, out, errOut io.Writer) error {
	fs := flag.NewFlagSet("clear", flag.ContinueOnError)
	fs.SetOutput(errOut)
	yes := fs.Bool("yes", false, "确认删除全部数据")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if !*yes {
		return fmt.Errorf("clear deletes every article, category and tag; rerun with -yes to confirm")
	}

	result, err := service.NewSeedService(db, nil).Clear(ctx)
	if err != nil {
		return fmt.Errorf("clear: %w", err)
	}
	fmt.Fprintf(out, "deleted: %d articles, %d categories, %d tags\n", result.Articles, result.Categories, result.Tags)
	return nil
}

func runStats(ctx context.Context, db *gorm.DB, cfg *config.Config, out io.Writer) error {
	status, err := service.NewStatusService(db).GetSystemStatus(ctx)
	if err != nil {
		return fmt.Errorf("stats: %w", err)
	}
	tags, err := service.NewTagCloudService(db).Build(ctx, cfg.Blog.TagCloudLimit)
	if err != nil {
		return fmt.Errorf("stats: %w", err)
	}

	fmt.Fprintf(out, "articles: %d (published %d, draft %d), views %d\n",
		status.TotalArticles, status.PublishedArticles, status.DraftArticles, status.TotalViews)
	fmt.Fprintf(out, "categories: %d\n", status.TotalCategories)

	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, c := range status.Categories {
		fmt.Fprintf(w, "  %s\t%d\n", c.Name, c.ArticleCount)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(out, "tags: %d\n", status.TotalTags)
	w = tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	for _, t := range tags {
		fmt.Fprintf(w, "  %s\t%d\n", t.Text, t.Count)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintf(out, "feeds: %d (enabled %d)\n", status.TotalFeeds, status.EnabledFeeds)
	return nil
}

func runConvert(ctx context.Context, db *gorm.DB, out io.Writer) error {
	n, err := service.NewArticleService(db).ConvertHTMLContent(ctx, service.NewHTMLConverter())
	if err != nil {
		return fmt.Errorf("convert: %w", err)
	}
	fmt.Fprintf(out, "converted %d articles\n", n)
	return nil
}

func runImport(ctx context.Context, db *gorm.DB, log zerolog.Logger, args []string, out, errOut io.Writer) error {
	fs := flag.NewFlagSet("import", flag.ContinueOnError)
	fs.SetOutput(errOut)
	url := fs.String("url", "", "RSS/Atom地址")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}

	feeds := service.NewFeedService(db, log)
	var (
		n   int
		err error
	)
	if *url != "" {
		n, err = feeds.ImportURL(ctx, *url)
	} else {
		n, err = feeds.FetchAllFeeds(ctx)
	}
	fmt.Fprintf(out, "imported %d drafts\n", n)
	if err != nil {
		return fmt.Errorf("import: %w", err)
	}
	return nil
}

func runLoad(ctx context.Context, db *gorm.DB, args []string, out, errOut io.Writer) error {
	fs := flag.NewFlagSet("load", flag.ContinueOnError)
	fs.SetOutput(errOut)
	dir := fs.String("dir", "", "Markdown目录")
	pattern := fs.String("pattern", "*.md", "文件名匹配规则")
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if *dir == "" {
		return fmt.Errorf("load: -dir is required")
	}

	loader := service.NewMarkdownLoader(
		service.NewArticleService(db),
		service.NewCategoryService(db),
		service.NewTagService(db),
	)
	result, err := loader.LoadDir(ctx, os.DirFS(*dir), *pattern)
	if err != nil {
		return fmt.Errorf("load: %w", err)
	}
	fmt.Fprintf(out, "loaded: %d created, %d updated\n", result.Created, result.Updated)
	return nil
}
