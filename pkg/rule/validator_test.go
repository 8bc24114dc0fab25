package rule_test

import (
	"testing"

	"github.com/go-playground/validator/v10"

	"github.com/yeisme/objvault/pkg/rule"
)

// partInput 用于测试 ValidateStruct.
type partInput struct {
	ETag       string `rule:"required"`
	PartNumber int    `rule:"gte=1,lte=10000"`
}

// TestEngine 测试 Engine 函数返回非 nil 实例.
func TestEngine(t *testing.T) {
	engine := rule.Engine()
	if engine == nil {
		t.Error("Engine() returned nil")
	}
}

// TestValidateStruct 测试 ValidateStruct 对有效和无效结构体的验证.
func TestValidateStruct(t *testing.T) {
	// 有效结构体
	valid := partInput{ETag: "9bb58f26192e4ba00f01e2e7b136bbd8", PartNumber: 1}

	err := rule.ValidateStruct(valid)
	if err != nil {
		t.Errorf("Expected no error for valid struct, got %v", err)
	}

	// 无效结构体：缺少 ETag
	invalid1 := partInput{ETag: "", PartNumber: 1}

	err = rule.ValidateStruct(invalid1)
	if err == nil {
		t.Error("Expected error for invalid struct (missing etag), got nil")
	}

	// 无效结构体：分片号越界
	invalid2 := partInput{ETag: "abc", PartNumber: 10001}

	err = rule.ValidateStruct(invalid2)
	if err == nil {
		t.Error("Expected error for invalid struct (part number out of range), got nil")
	}
}

// TestValidateVar 测试 ValidateVar 对变量的验证.
func TestValidateVar(t *testing.T) {
	// 有效 email
	err := rule.ValidateVar("alice@example.com", "required,email")
	if err != nil {
		t.Errorf("Expected no error for valid email, got %v", err)
	}

	// 无效 email
	err = rule.ValidateVar("not-an-email", "required,email")
	if err == nil {
		t.Error("Expected error for invalid email, got nil")
	}

	// 有效分片号
	err = rule.ValidateVar(1, "gte=1")
	if err != nil {
		t.Errorf("Expected no error for valid part number, got %v", err)
	}

	// 无效分片号
	err = rule.ValidateVar(0, "gte=1")
	if err == nil {
		t.Error("Expected error for invalid part number, got nil")
	}
}

// TestRegisterValidation 测试注册自定义验证.
func TestRegisterValidation(t *testing.T) {
	// 注册自定义验证：存储键不允许以斜杠开头
	err := rule.RegisterValidation("storage_key", func(fl validator.FieldLevel) bool {
		str, ok := fl.Field().Interface().(string)
		if !ok {
			return false
		}

		return len(str) > 0 && str[0] != '/'
	})
	if err != nil {
		t.Fatalf("Failed to register validation: %v", err)
	}

	// 测试有效存储键
	err = rule.ValidateVar("alice/2025/01/x.bin", "storage_key")
	if err != nil {
		t.Errorf("Expected no error for valid storage key, got %v", err)
	}

	// 测试无效存储键
	err = rule.ValidateVar("/alice/x.bin", "storage_key")
	if err == nil {
		t.Error("Expected error for storage key with leading slash, got nil")
	}
}

// TestRegisterAlias 测试注册别名.
func TestRegisterAlias(t *testing.T) {
	rule.RegisterAlias("object_name", "required,min=1,max=255")

	// 测试有效对象名
	err := rule.ValidateVar("report.pdf", "object_name")
	if err != nil {
		t.Errorf("Expected no error for valid object name with alias, got %v", err)
	}

	// 测试无效对象名
	err = rule.ValidateVar("", "object_name")
	if err == nil {
		t.Error("Expected error for empty object name with alias, got nil")
	}
}
