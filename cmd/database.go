package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/nsxzhou1114/blog-article-api/internal/model"
	"github.com/nsxzhou1114/blog-article-api/internal/repository"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// databaseCmd 数据库管理命令
var databaseCmd = &cobra.Command{
	Use:   "db",
	Short: "数据库管理命令",
	Long:  `数据库管理相关的命令，包括初始化、连通性检查、导入导出`,
}

// migrateCmd 初始化表结构或索引
// 示例：./blog-api db migrate
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "初始化表结构与索引",
	Long:  `为当前存储后端创建文章表或集合索引`,
	RunE: func(cmd *cobra.Command, args []string) error {
		sys := mustInitialize(cmd.Context())
		defer sys.close()
		// 仓储初始化时已完成迁移
		fmt.Printf("存储 %s 初始化完成\n", sys.conn.Backend())
		return nil
	},
}

// pingCmd 检查存储连通性
// 示例：./blog-api db ping
var pingCmd = &cobra.Command{
	Use:   "ping",
	Short: "检查存储连接",
	RunE: func(cmd *cobra.Command, args []string) error {
		sys := mustInitialize(cmd.Context())
		defer sys.close()

		ctx, cancel := context.WithTimeout(cmd.Context(), 5*time.Second)
		defer cancel()
		start := time.Now()
		if err := sys.conn.Ping(ctx); err != nil {
			return fmt.Errorf("存储不可用: %w", err)
		}
		fmt.Printf("存储 %s 正常，耗时 %s\n", sys.conn.Backend(), time.Since(start))
		return nil
	},
}

// exportCmd 导出文章数据
// 示例：./blog-api db export articles.json
var exportCmd = &cobra.Command{
	Use:   "export [file]",
	Short: "导出文章数据",
	Long:  `导出全部文章到JSON文件`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sys := mustInitialize(cmd.Context())
		defer sys.close()

		f, err := os.Create(args[0])
		if err != nil {
			return fmt.Errorf("创建文件失败: %w", err)
		}
		defer f.Close()

		n, err := exportArticles(cmd.Context(), sys.repo, f)
		if err != nil {
			return err
		}
		sys.log.Info("文章导出完成", zap.Int("count", n), zap.String("file", args[0]))
		fmt.Printf("成功导出 %d 篇文章到 %s\n", n, args[0])
		return nil
	},
}

// importCmd 导入文章数据
// 示例：./blog-api db import articles.json
var importCmd = &cobra.Command{
	Use:   "import [file]",
	Short: "导入文章数据",
	Long:  `从JSON文件导入文章，校验失败的记录会被跳过`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		sys := mustInitialize(cmd.Context())
		defer sys.close()

		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("读取文件失败: %w", err)
		}
		defer f.Close()

		res, err := importArticles(cmd.Context(), sys.repo, f)
		if err != nil {
			return err
		}
		for _, e := range res.Errors {
			sys.log.Warn("跳过文章", zap.String("reason", e))
		}
		fmt.Printf("成功导入 %d 篇文章，跳过 %d 篇\n", res.Imported, res.Skipped)
		return nil
	},
}

func init() {
	// 添加数据库相关子命令
	databaseCmd.AddCommand(migrateCmd)
	databaseCmd.AddCommand(pingCmd)
	databaseCmd.AddCommand(exportCmd)
	databaseCmd.AddCommand(importCmd)

	// 将数据库命令添加到根命令
	rootCmd.AddCommand(databaseCmd)
}

// exportArticles 以JSON数组写出全部文章
func exportArticles(ctx context.Context, repo repository.ArticleRepository, w io.Writer) (int, error) {
	articles, err := repo.FindAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("查询文章失败: %w", err)
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(articles); err != nil {
		return 0, fmt.Errorf("写入数据失败: %w", err)
	}
	return len(articles), nil
}

// importResult 导入结果
type importResult struct {
	Imported int
	Skipped  int
	Errors   []string
}

// importArticles 读取JSON数组并逐条写入，保留原有ID与时间
func importArticles(ctx context.Context, repo repository.ArticleRepository, r io.Reader) (*importResult, error) {
	var articles []*model.Article
	if err := json.NewDecoder(r).Decode(&articles); err != nil {
		return nil, fmt.Errorf("解析数据失败: %w", err)
	}

	res := &importResult{}
	now := time.Now().UTC()
	for i, a := range articles {
		a.Category = model.NormalizeCategory(string(a.Category))
		if a.CreatedAt.IsZero() {
			a.CreatedAt = now
		}
		if a.UpdatedAt.Before(a.CreatedAt) {
			a.UpdatedAt = a.CreatedAt
		}
		if err := a.Validate(); err != nil {
			res.Skipped++
			res.Errors = append(res.Errors, fmt.Sprintf("#%d: %v", i, err))
			continue
		}
		if err := repo.Create(ctx, a); err != nil {
			res.Skipped++
			res.Errors = append(res.Errors, fmt.Sprintf("#%d: %v", i, err))
			continue
		}
		res.Imported++
	}
	return res, nil
}
