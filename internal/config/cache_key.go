package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// TaxonomyGroupsKey holds the grouped group/category-type listing.
func (r *CacheKeyStruct) TaxonomyGroupsKey() string {
	return "taxonomy:groups"
}

// RefreshTokenKey marks a refresh token JTI as still redeemable.
func (r *CacheKeyStruct) RefreshTokenKey(jti string) string {
	return fmt.Sprintf("auth:refresh:%s", jti)
}

var CacheKey = NewCacheKeyStruct()
