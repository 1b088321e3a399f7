package wizard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"listing_wizard_v1_202610/internal/schema"
)

// ==================== 测试目录 ====================

func ptr(v float64) *float64 { return &v }

func testRegistry() *schema.Catalog {
	return schema.NewCatalog(
		[]schema.Category{
			{ID: "electronics", Name: "Electronics"},
			{ID: "property", Name: "Property", ConditionOptions: []string{"Newly built", "Renovated"}},
			{ID: "misc", Name: "Misc"},
		},
		map[string][]schema.Subcategory{
			"electronics": {
				{
					ID:   "smartphones",
					Name: "Smartphones",
					Attributes: []schema.AttributeDescriptor{
						{Name: "brand", Label: "Brand", Kind: schema.KindSelect, Required: true, Options: []string{"Apple", "Samsung", "Other"}},
						{
							Name: "model", Label: "Model", Kind: schema.KindSelect, DependsOn: "brand",
							DependentOptions: &schema.DependentOptions{Options: map[string][]string{
								"Apple": {"iPhone 14", "iPhone 15"},
								"Other": {"N/A"},
							}},
						},
						{Name: "unlocked", Label: "Unlocked", Kind: schema.KindToggle},
					},
				},
				{
					ID:   "cameras",
					Name: "Cameras",
					Attributes: []schema.AttributeDescriptor{
						{Name: "brand", Label: "Brand", Kind: schema.KindText},
					},
				},
			},
			"property": {
				{
					ID:   "apartments",
					Name: "Apartments",
					Attributes: []schema.AttributeDescriptor{
						{Name: "bedrooms", Label: "Bedrooms", Kind: schema.KindNumber, Required: true, Min: ptr(1), Max: ptr(4)},
						{Name: "area", Label: "Area", Kind: schema.KindNumber, Required: true, Suffix: "m²"},
						{Name: "furnished", Label: "Furnished", Kind: schema.KindToggle},
					},
				},
			},
		},
	)
}

func smartphones(t *testing.T) *schema.Subcategory {
	sub, ok := testRegistry().GetSubcategoryConfig("electronics", "smartphones")
	require.True(t, ok)
	return sub
}

func fieldByName(fields []ResolvedField, name string) *ResolvedField {
	for i := range fields {
		if fields[i].Name() == name {
			return &fields[i]
		}
	}
	return nil
}

// ==================== Resolver 测试 ====================

func TestResolve_DependentField(t *testing.T) {
	sub := smartphones(t)

	tests := []struct {
		name        string
		bag         ValueBag
		wantEnabled bool
		wantOptions []string
	}{
		{"父字段为空", ValueBag{}, false, []string{}},
		{"父字段空白", ValueBag{"brand": "  "}, false, []string{}},
		{"显式映射", ValueBag{"brand": "Apple"}, true, []string{"iPhone 14", "iPhone 15"}},
		{"走 Other 兜底", ValueBag{"brand": "Samsung"}, true, []string{"N/A"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fields := Resolve(sub, tt.bag)
			model := fieldByName(fields, "model")
			require.NotNil(t, model)
			assert.Equal(t, tt.wantEnabled, model.Enabled)
			assert.Equal(t, tt.wantOptions, model.EffectiveOptions)
		})
	}
}

func TestResolve_NonDependentFields(t *testing.T) {
	fields := Resolve(smartphones(t), ValueBag{})

	require.Len(t, fields, 3)
	assert.Equal(t, []string{"brand", "model", "unlocked"}, []string{fields[0].Name(), fields[1].Name(), fields[2].Name()})
	assert.True(t, fields[0].Enabled)
	assert.Equal(t, []string{"Apple", "Samsung", "Other"}, fields[0].EffectiveOptions)
	assert.True(t, fields[2].Enabled)
	assert.Empty(t, fields[2].EffectiveOptions)
}

func TestResolve_NoFallbackYieldsEmptyOptions(t *testing.T) {
	sub := &schema.Subcategory{
		ID: "x",
		Attributes: []schema.AttributeDescriptor{
			{Name: "make", Kind: schema.KindSelect, Options: []string{"A", "B"}},
			{Name: "model", Kind: schema.KindSelect, DependsOn: "make",
				DependentOptions: &schema.DependentOptions{Options: map[string][]string{"A": {"A1"}}}},
		},
	}
	bag := ValueBag{"make": "A", "model": "A1"}

	bag["make"] = "B"
	model := fieldByName(Resolve(sub, bag), "model")
	require.NotNil(t, model)
	assert.True(t, model.Enabled)
	assert.Empty(t, model.EffectiveOptions)
	assert.Equal(t, []string{"model"}, StaleDependents(sub, bag, "make"))
}

func TestResolve_NilSubcategory(t *testing.T) {
	fields := Resolve(nil, ValueBag{"brand": "Apple"})
	assert.NotNil(t, fields)
	assert.Empty(t, fields)
}

func TestResolve_Deterministic(t *testing.T) {
	sub := smartphones(t)
	bag := ValueBag{"brand": "Apple", "model": "iPhone 15"}
	before := bag.Clone()

	assert.Equal(t, Resolve(sub, bag), Resolve(sub, bag))
	assert.Equal(t, before, bag, "Resolve 不应修改取值")
}

func TestStaleDependents(t *testing.T) {
	sub := smartphones(t)

	tests := []struct {
		name string
		bag  ValueBag
		want []string
	}{
		{"依赖值仍有效", ValueBag{"brand": "Apple", "model": "iPhone 14"}, nil},
		{"依赖值失效", ValueBag{"brand": "Samsung", "model": "iPhone 14"}, []string{"model"}},
		{"兜底后仍有效", ValueBag{"brand": "Samsung", "model": "N/A"}, nil},
		{"依赖值为空", ValueBag{"brand": "Samsung"}, nil},
		{"父字段被清空", ValueBag{"model": "iPhone 14"}, []string{"model"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, StaleDependents(sub, tt.bag, "brand"))
		})
	}
}

func TestStaleDependents_SingleLevel(t *testing.T) {
	sub := &schema.Subcategory{
		ID: "chain",
		Attributes: []schema.AttributeDescriptor{
			{Name: "a", Kind: schema.KindSelect, Options: []string{"1", "2"}},
			{Name: "b", Kind: schema.KindSelect, DependsOn: "a",
				DependentOptions: &schema.DependentOptions{Options: map[string][]string{"1": {"b1"}, "2": {"b2"}}}},
			{Name: "c", Kind: schema.KindSelect, DependsOn: "b",
				DependentOptions: &schema.DependentOptions{Options: map[string][]string{"b1": {"c1"}}}},
		},
	}
	bag := ValueBag{"a": "2", "b": "b1", "c": "c1"}

	// 只处理 a 的直接依赖 b，c 不在结果中
	assert.Equal(t, []string{"b"}, StaleDependents(sub, bag, "a"))
}

// ==================== Validation 测试 ====================

func TestValidate_Category(t *testing.T) {
	tests := []struct {
		name string
		vc   ValidationContext
		want []string
	}{
		{"未选分类", ValidationContext{}, []string{FieldCategory}},
		{"有子分类但未选", ValidationContext{CategoryID: "electronics", HasSubcategories: true}, []string{FieldSubcategory}},
		{"无子分类的分类", ValidationContext{CategoryID: "misc"}, []string{}},
		{"都已选择", ValidationContext{CategoryID: "electronics", SubcategoryID: "smartphones", HasSubcategories: true}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := Validate(StepCategory, &tt.vc)
			assert.Equal(t, tt.want, errs.Keys())
		})
	}
}

func TestValidate_PhotosAndDetails(t *testing.T) {
	errs := Validate(StepPhotos, &ValidationContext{})
	assert.Contains(t, errs, FieldImages)

	errs = Validate(StepPhotos, &ValidationContext{ImageCount: 1})
	assert.True(t, errs.Empty())

	// 不短路：标题和描述同时报错
	errs = Validate(StepBaseDetails, &ValidationContext{Title: " abc ", Description: "too short"})
	assert.Equal(t, []string{FieldDescription, FieldTitle}, errs.Keys())

	errs = Validate(StepBaseDetails, &ValidationContext{
		Title:       "  iPhone 14 Pro  ",
		Description: "Barely used, comes with the original box.",
	})
	assert.True(t, errs.Empty())

	// 去除首尾空白后计数
	errs = Validate(StepBaseDetails, &ValidationContext{Title: "    ab    ", Description: "                         x"})
	assert.Equal(t, 2, errs.Count())
}

func TestValidate_RequiredCountMatchesErrors(t *testing.T) {
	reg := testRegistry()
	for _, cat := range reg.GetCategories() {
		for _, sub := range reg.GetSubcategories(cat.ID) {
			sub := sub
			t.Run(sub.ID, func(t *testing.T) {
				required := 0
				for _, a := range sub.Attributes {
					if a.Required {
						required++
					}
				}
				errs := Validate(StepAttributes, &ValidationContext{
					Fields: Resolve(&sub, ValueBag{}),
					Values: ValueBag{},
				})
				assert.Equal(t, required, errs.Count())
			})
		}
	}
}

func TestValidate_NumberBounds(t *testing.T) {
	sub, ok := testRegistry().GetSubcategoryConfig("property", "apartments")
	require.True(t, ok)

	tests := []struct {
		name    string
		value   any
		wantErr bool
	}{
		{"低于下限", 0, true},
		{"高于上限", 5, true},
		{"范围内", 2, false},
		{"边界值", 4.0, false},
		{"数字字符串", "3", false},
		{"非数字", "three", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bag := ValueBag{"bedrooms": tt.value, "area": 70.0}
			errs := Validate(StepAttributes, &ValidationContext{Fields: Resolve(sub, bag), Values: bag})
			_, has := errs["bedrooms"]
			assert.Equal(t, tt.wantErr, has, errs)
		})
	}

	bag := ValueBag{"bedrooms": 5, "area": 70.0}
	errs := Validate(StepAttributes, &ValidationContext{Fields: Resolve(sub, bag), Values: bag})
	assert.Contains(t, errs["bedrooms"], "4")
}

func TestValidate_PriceContact(t *testing.T) {
	tests := []struct {
		name     string
		price    string
		location string
		want     []string
	}{
		{"价格为 0", "0", "Berlin", []string{FieldPrice}},
		{"负数", "-5", "Berlin", []string{FieldPrice}},
		{"没有数字", "free", "Berlin", []string{FieldPrice}},
		{"空白所在地", "150", "   ", []string{FieldLocation}},
		{"全部为空", "", "", []string{FieldLocation, FieldPrice}},
		{"有效", "150", "Berlin", []string{}},
		{"带空白的价格", " 99.5 ", "Berlin", []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := Validate(StepPriceContact, &ValidationContext{Price: tt.price, Location: tt.location})
			assert.Equal(t, tt.want, errs.Keys())
		})
	}
}

func TestParsePrice(t *testing.T) {
	price, err := ParsePrice(" 150 ")
	require.NoError(t, err)
	assert.Equal(t, 150.0, price)

	for _, raw := range []string{"", "abc", "0", "0.00", "-1", "1e", "NaN"} {
		_, err := ParsePrice(raw)
		assert.Error(t, err, raw)
	}
}
