package model

import "go.mongodb.org/mongo-driver/bson/primitive"

// NewID 生成新的文章ID，所有存储后端统一使用 ObjectID 的十六进制形式
func NewID() string {
	return primitive.NewObjectID().Hex()
}

// ValidateID 校验文章ID格式
func ValidateID(id string) error {
	if !primitive.IsValidObjectID(id) {
		return ErrInvalidID
	}
	return nil
}
