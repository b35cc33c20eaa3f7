package knowledge

import "ServiceBot/pkg/response"

var (
	ErrRecordNotFound      = response.NewError(404, "knowledge record not found")
	ErrRecordAlreadyExists = response.NewError(409, "knowledge record already exists")
	ErrCreateRecord        = response.NewError(500, "failed to create knowledge record")
)
