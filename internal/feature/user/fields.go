package user

import (
	"sort"

	"go-gin-mongo-users/internal/domain"
)

// 字段可见性白名单。hiddenFields 是唯一权威的隐藏集，默认投影和
// custom 投影都从这一份常量出发，避免两处各抄一份后漂移。
var (
	basicFields = []string{
		"name", "email", "age", "phone", "address", "createdAt", "updatedAt",
	}

	adminFields = []string{
		"name", "email", "emailLower", "age", "phone", "address",
		"isDeleted", "deletedAt", "deletedBy", "deleteReason",
		"createdAt", "updatedAt",
	}

	// __v 是文档的内部版本标记，任何预设都不对外暴露。
	hiddenFields = []string{
		"__v", "isDeleted", "deletedAt", "deletedBy", "deleteReason", "emailLower",
	}
)

// allowedCustomFields basic ∪ admin，custom 模式的合法字段全集。
func allowedCustomFields() []string {
	seen := make(map[string]struct{}, len(basicFields)+len(adminFields))
	var out []string
	for _, f := range append(append([]string{}, basicFields...), adminFields...) {
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// validateCustomFields 整体校验：任何一个字段不在白名单里就拒绝整个请求，
// 错误里带上非法字段和允许集合。
func validateCustomFields(fields []string) ([]string, error) {
	allowed := allowedCustomFields()
	set := make(map[string]struct{}, len(allowed))
	for _, f := range allowed {
		set[f] = struct{}{}
	}

	var invalid []string
	for _, f := range fields {
		if _, ok := set[f]; !ok {
			invalid = append(invalid, f)
		}
	}
	if len(invalid) > 0 {
		return nil, domain.NewValidationError("invalid fields", invalid, allowed)
	}
	return fields, nil
}
