package services

import "errors"

var (
	ErrTreeNotFound       = errors.New("tree not found")
	ErrTreeTagTaken       = errors.New("qr_code or nfc_tag already assigned to another tree")
	ErrRiskAlertNotFound  = errors.New("risk alert not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found or inactive")
	ErrIncorrectPassword  = errors.New("current password is incorrect")
	ErrTokenExpired       = errors.New("token expired")
	ErrInvalidToken       = errors.New("invalid token")
)
