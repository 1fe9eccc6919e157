package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// AntiForgeryTokenKey returns the key under which an issued anti-forgery token id is kept
func (r *CacheKeyStruct) AntiForgeryTokenKey(tokenID string) string {
	return fmt.Sprintf("antiforgery:%s", tokenID)
}

// CourseActivityChannel returns the Redis PubSub channel carrying committed course changes
func (r *CacheKeyStruct) CourseActivityChannel() string {
	return "courses:activity"
}

var CacheKey = NewCacheKeyStruct()
