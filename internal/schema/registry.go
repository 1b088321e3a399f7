package schema

// ==================== Registry 接口 ====================

// Registry 分类/属性目录查询接口
// 所有查询对未知 ID 都不报错：返回空列表或 ok=false
type Registry interface {
	GetCategories() []Category
	GetSubcategories(categoryID string) []Subcategory
	GetSubcategoryConfig(categoryID, subcategoryID string) (*Subcategory, bool)
	GetConditionOptions(categoryID, subcategoryID string) []string
}

// ==================== Catalog 实现 ====================

// Catalog 只读目录，进程启动时加载一次
type Catalog struct {
	categories    []Category
	subcategories map[string][]Subcategory // categoryID -> 有序子分类
}

var _ Registry = (*Catalog)(nil)

// NewCatalog 由已校验的数据构建目录
func NewCatalog(categories []Category, subcategories map[string][]Subcategory) *Catalog {
	c := &Catalog{
		categories:    make([]Category, 0, len(categories)),
		subcategories: make(map[string][]Subcategory, len(subcategories)),
	}
	for _, cat := range categories {
		cat.ConditionOptions = cloneStrings(cat.ConditionOptions)
		c.categories = append(c.categories, cat)
	}
	for catID, subs := range subcategories {
		list := make([]Subcategory, len(subs))
		for i, sub := range subs {
			sub.CategoryID = catID
			list[i] = sub.clone()
		}
		c.subcategories[catID] = list
	}
	return c
}

// GetCategories 全部分类（稳定顺序）
func (c *Catalog) GetCategories() []Category {
	out := make([]Category, len(c.categories))
	for i, cat := range c.categories {
		cat.ConditionOptions = cloneStrings(cat.ConditionOptions)
		out[i] = cat
	}
	return out
}

// GetCategory 按 ID 查找分类
func (c *Catalog) GetCategory(categoryID string) (*Category, bool) {
	for i := range c.categories {
		if c.categories[i].ID == categoryID {
			cat := c.categories[i]
			cat.ConditionOptions = cloneStrings(cat.ConditionOptions)
			return &cat, true
		}
	}
	return nil, false
}

// GetSubcategories 分类下的子分类，未知分类返回空列表
func (c *Catalog) GetSubcategories(categoryID string) []Subcategory {
	subs := c.subcategories[categoryID]
	out := make([]Subcategory, len(subs))
	for i, sub := range subs {
		out[i] = sub.clone()
	}
	return out
}

// GetSubcategoryConfig 子分类配置，任一 ID 未知时 ok=false
func (c *Catalog) GetSubcategoryConfig(categoryID, subcategoryID string) (*Subcategory, bool) {
	for _, sub := range c.subcategories[categoryID] {
		if sub.ID == subcategoryID {
			cp := sub.clone()
			return &cp, true
		}
	}
	return nil, false
}

// GetConditionOptions 成色选项
// 优先级：子分类 > 分类 > 默认
func (c *Catalog) GetConditionOptions(categoryID, subcategoryID string) []string {
	if sub, ok := c.GetSubcategoryConfig(categoryID, subcategoryID); ok && len(sub.ConditionOptions) > 0 {
		return sub.ConditionOptions
	}
	if cat, ok := c.GetCategory(categoryID); ok && len(cat.ConditionOptions) > 0 {
		return cat.ConditionOptions
	}
	return cloneStrings(DefaultConditionOptions)
}

// Attribute 按名称查找某子分类下的属性
func (c *Catalog) Attribute(categoryID, subcategoryID, name string) (*AttributeDescriptor, bool) {
	sub, ok := c.GetSubcategoryConfig(categoryID, subcategoryID)
	if !ok {
		return nil, false
	}
	return sub.Attribute(name)
}

// Stats 目录规模统计
func (c *Catalog) Stats() (categories, subcategories, attributes int) {
	categories = len(c.categories)
	for _, subs := range c.subcategories {
		subcategories += len(subs)
		for _, sub := range subs {
			attributes += len(sub.Attributes)
		}
	}
	return
}
