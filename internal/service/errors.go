package service

import (
	"errors"

	"github.com/contoso/university/internal/database"
	"github.com/contoso/university/internal/repository"
	"github.com/contoso/university/internal/response"
)

// Errors callers of this package need to tell apart.
var (
	ErrCourseNotFound     = repository.ErrCourseNotFound
	ErrDuplicateCourse    = repository.ErrDuplicateCourse
	ErrUnknownDepartment  = repository.ErrUnknownDepartment
	ErrCourseInUse        = repository.ErrCourseInUse
	ErrSaveFailed         = database.ErrRetryLimitExceeded
	ErrAntiForgeryInvalid = errors.New("anti-forgery token is missing, invalid or already used")
)

// SaveFailedMessage is the form-level error shown when a unit of work could
// not be committed.
const SaveFailedMessage = response.SaveFailedMessage
