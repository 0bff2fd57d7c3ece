package model

import "strings"

// Category 文章分类
type Category string

const (
	CategoryTechnology Category = "Technology"
	CategoryLifestyle  Category = "Lifestyle"
	CategoryTravel     Category = "Travel"
	CategoryCooking    Category = "Cooking"
	CategoryOther      Category = "Other"
)

// Categories 全部可用分类
var Categories = []Category{
	CategoryTechnology,
	CategoryLifestyle,
	CategoryTravel,
	CategoryCooking,
	CategoryOther,
}

// IsValid 是否为可用分类
func (c Category) IsValid() bool {
	for _, v := range Categories {
		if c == v {
			return true
		}
	}
	return false
}

// NormalizeCategory 去除空白并忽略大小写匹配分类，空值返回默认分类。
// 无法匹配时原样返回，由校验报告错误。
func NormalizeCategory(raw string) Category {
	s := strings.TrimSpace(raw)
	if s == "" {
		return CategoryOther
	}
	for _, v := range Categories {
		if strings.EqualFold(s, string(v)) {
			return v
		}
	}
	return Category(s)
}

// ParseCategory 解析分类，非法分类返回校验错误
func ParseCategory(raw string) (Category, error) {
	c := NormalizeCategory(raw)
	if !c.IsValid() {
		return "", &ValidationError{Fields: []FieldError{{
			Field:   "category",
			Message: categoryMessage(string(c)),
		}}}
	}
	return c, nil
}
