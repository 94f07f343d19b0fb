package domain

import "github.com/go-playground/validator/v10"

// validator 实例并发安全，内部缓存结构体元数据
var validate = validator.New(validator.WithRequiredStructEnabled())
