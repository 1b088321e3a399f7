package schema

import (
	_ "embed"
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var embeddedCatalog []byte

// ==================== 文件结构 ====================

// catalogFile YAML 目录文件
type catalogFile struct {
	Version    string         `yaml:"version"`
	Categories []categoryNode `yaml:"categories" validate:"required,min=1,dive"`
}

// categoryNode 分类节点（分类字段内联 + 子分类）
type categoryNode struct {
	Category      `yaml:",inline"`
	Subcategories []Subcategory `yaml:"subcategories" validate:"dive"`
}

// ==================== 加载 ====================

// LoadFile 从文件加载目录
func LoadFile(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取目录文件 %s 失败: %w", path, err)
	}
	return Load(data)
}

// Load 解析并校验目录
// 依赖关系等约束在这里一次性检查，运行期不再校验
func Load(data []byte) (*Catalog, error) {
	var f catalogFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("解析目录 YAML 失败: %w", err)
	}

	if err := validateFile(&f); err != nil {
		return nil, err
	}

	categories := make([]Category, 0, len(f.Categories))
	subcategories := make(map[string][]Subcategory, len(f.Categories))
	for _, node := range f.Categories {
		categories = append(categories, node.Category)
		if len(node.Subcategories) > 0 {
			subcategories[node.ID] = node.Subcategories
		}
	}

	return NewCatalog(categories, subcategories), nil
}

// ==================== 内置目录 ====================

var (
	defaultOnce    sync.Once
	defaultCatalog *Catalog
)

// Default 内置目录
// 内置目录校验失败属于构建缺陷，直接 panic
func Default() *Catalog {
	defaultOnce.Do(func() {
		c, err := Load(embeddedCatalog)
		if err != nil {
			panic(fmt.Sprintf("内置目录无效: %v", err))
		}
		defaultCatalog = c
	})
	return defaultCatalog
}
