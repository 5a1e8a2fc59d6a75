package service

import "errors"

var (
	// ErrInvalidCredentials is returned for an unknown username or a wrong password.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrForbidden indicates the session role may not perform the operation.
	ErrForbidden = errors.New("operation not permitted for this role")
	// ErrUserNotFound indicates the referenced account does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrUserExists indicates the username is already taken.
	ErrUserExists = errors.New("username already exists")
	// ErrCannotRemoveSelf prevents an administrator from deleting the account in use.
	ErrCannotRemoveSelf = errors.New("cannot remove the logged in account")
	// ErrCourseNotFound indicates the course does not exist.
	ErrCourseNotFound = errors.New("course not found")
	// ErrNotCourseOwner indicates a teacher tried to change a course they do not teach.
	ErrNotCourseOwner = errors.New("course belongs to another teacher")
	// ErrNotEnrolled indicates the student is not enrolled in the course.
	ErrNotEnrolled = errors.New("not enrolled in course")
	// ErrAlreadyEnrolled indicates a duplicate enrollment.
	ErrAlreadyEnrolled = errors.New("already enrolled in course")
	// ErrAssignmentNotFound indicates the assignment definition does not exist.
	ErrAssignmentNotFound = errors.New("assignment not found")
	// ErrDuplicateAssignmentTitle indicates the title is already used in the course.
	ErrDuplicateAssignmentTitle = errors.New("assignment title already exists in course")
	// ErrInvalidDueDate indicates a due date that is not a real YYYY-MM-DD calendar date.
	ErrInvalidDueDate = errors.New("due date must be a valid YYYY-MM-DD date")
	// ErrSubmissionNotFound indicates the submission does not exist.
	ErrSubmissionNotFound = errors.New("submission not found")
	// ErrQuizNotFound indicates the quiz does not exist.
	ErrQuizNotFound = errors.New("quiz not found")
	// ErrQuizAlreadyAttempted rejects a second attempt at the same quiz.
	ErrQuizAlreadyAttempted = errors.New("quiz already attempted")
	// ErrInvalidQuizOption indicates a chosen option outside 0..3.
	ErrInvalidQuizOption = errors.New("quiz option out of range")
	// ErrNotificationNotFound indicates the notification does not exist for the user.
	ErrNotificationNotFound = errors.New("notification not found")
	// ErrEmptyMessage indicates a message with no content after sanitizing.
	ErrEmptyMessage = errors.New("message is empty")
	// ErrInvalidDateRange indicates a date filter whose start falls after its end.
	ErrInvalidDateRange = errors.New("date range start is after its end")
)
