package rediskey

import "fmt"

const (
	CategoryPrefix = "category"
)

func NamespaceKey(namespace, key string) string {
	return fmt.Sprintf("%s:%s", namespace, key)
}

// BuildCategoryListKey returns "category:list:active"
func BuildCategoryListKey() string {
	return NamespaceKey(CategoryPrefix, "list:active")
}
