package domain

import "errors"

var (
	ErrConfig  = errors.New("configuration error")
	ErrFetch   = errors.New("blob download failed")
	ErrDecode  = errors.New("image decode failed")
	ErrEnhance = errors.New("image enhancement failed")
	ErrEncode  = errors.New("image encode failed")
	ErrExtract = errors.New("text extraction failed")
)
