package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/nsxzhou1114/blog-article-api/internal/model"
	"github.com/nsxzhou1114/blog-article-api/internal/repository"
	"github.com/spf13/cobra"
)

// statsCmd 统计命令
var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "文章统计信息",
	Long:  `显示文章数量、发布情况、分类分布与浏览量排行`,
	RunE: func(cmd *cobra.Command, args []string) error {
		sys := mustInitialize(cmd.Context())
		defer sys.close()

		stats, err := collectArticleStats(cmd.Context(), sys.repo)
		if err != nil {
			return err
		}
		printArticleStats(os.Stdout, stats, topN)
		return nil
	},
}

var topN int

func init() {
	statsCmd.Flags().IntVarP(&topN, "top", "n", 5, "浏览量排行条数")

	// 将统计命令添加到根命令
	rootCmd.AddCommand(statsCmd)
}

// articleStats 文章统计
type articleStats struct {
	Total      int
	Published  int
	Drafts     int
	TotalViews int
	ByCategory map[model.Category]int
	TopViewed  []*model.Article
}

// collectArticleStats 汇总文章统计信息
func collectArticleStats(ctx context.Context, repo repository.ArticleRepository) (*articleStats, error) {
	articles, err := repo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("查询文章失败: %w", err)
	}

	stats := &articleStats{
		Total:      len(articles),
		ByCategory: make(map[model.Category]int, len(model.Categories)),
	}
	for _, a := range articles {
		if a.Published {
			stats.Published++
		} else {
			stats.Drafts++
		}
		stats.TotalViews += a.ViewCount
		stats.ByCategory[a.Category]++
	}

	stats.TopViewed = append([]*model.Article(nil), articles...)
	sort.SliceStable(stats.TopViewed, func(i, j int) bool {
		return stats.TopViewed[i].ViewCount > stats.TopViewed[j].ViewCount
	})
	return stats, nil
}

// printArticleStats 输出统计信息
func printArticleStats(w io.Writer, stats *articleStats, top int) {
	fmt.Fprintln(w, "📊 文章统计")
	fmt.Fprintf(w, "文章总数: %d\n", stats.Total)
	fmt.Fprintf(w, "已发布: %d\n", stats.Published)
	fmt.Fprintf(w, "草稿: %d\n", stats.Drafts)
	fmt.Fprintf(w, "总浏览量: %d\n", stats.TotalViews)

	fmt.Fprintln(w, "\n分类分布:")
	for _, c := range model.Categories {
		fmt.Fprintf(w, "  %-12s %d\n", c, stats.ByCategory[c])
	}

	if top > len(stats.TopViewed) {
		top = len(stats.TopViewed)
	}
	if top <= 0 {
		return
	}
	fmt.Fprintln(w, "\n浏览量排行:")
	for i, a := range stats.TopViewed[:top] {
		fmt.Fprintf(w, "  %d. %s (%d)\n", i+1, a.Title, a.ViewCount)
	}
}
