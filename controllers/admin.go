package controllers

import (
	"net/http"
	"time"

	"journal-management-api/config"
	"journal-management-api/models"
	"journal-management-api/utils"

	"github.com/gin-gonic/gin"
)

// Sort whitelists per admin listing. User input outside these falls back to
// the default column.
var (
	adminUserSort       = map[string]bool{"user_id": true, "email": true, "user_lname": true, "create_at": true}
	adminSubmissionSort = map[string]bool{"submission_id": true, "created_at": true, "status": true, "title": true, "submitted_at": true}
	adminPaymentSort    = map[string]bool{"payment_id": true, "created_at": true, "status": true, "amount": true}
	adminReviewSort     = map[string]bool{"review_id": true, "invited_at": true, "review_status": true, "submitted_at": true}
	adminComplaintSort  = map[string]bool{"complaint_id": true, "created_at": true, "status": true}
)

// AdminListUsers returns a paginated user listing with optional role and
// status filters.
func AdminListUsers(c *gin.Context) {
	p := utils.ParsePagination(c, adminUserSort, "user_id")

	query := config.DB.Model(&models.User{}).Preload("Role").Where("delete_at IS NULL")
	if role := c.Query("role_id"); role != "" {
		query = query.Where("role_id = ?", role)
	}
	if status := c.Query("account_status"); status != "" {
		query = query.Where("account_status = ?", status)
	}
	if email := c.Query("email"); email != "" {
		query = query.Where("email LIKE ?", "%"+email+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count users"})
		return
	}

	var users []models.User
	if err := query.Order(p.Order()).Limit(p.Limit).Offset(p.Offset()).Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch users"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"users": users,
		"total": total,
		"page":  p.Page,
		"limit": p.Limit,
	})
}

type AdminCreateUserRequest struct {
	UserFname   string  `json:"user_fname" binding:"required"`
	UserLname   string  `json:"user_lname" binding:"required"`
	Email       string  `json:"email" binding:"required,email"`
	Password    string  `json:"password" binding:"required,min=8"`
	RoleID      int     `json:"role_id" binding:"required"`
	Affiliation *string `json:"affiliation"`
	OrcidID     *string `json:"orcid_id"`
}

// AdminCreateUser registers an account with an explicit role.
func AdminCreateUser(c *gin.Context) {
	var req AdminCreateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if !utils.ValidateEmail(req.Email) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid email address"})
		return
	}
	if ok, reason := utils.ValidatePassword(req.Password); !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": reason})
		return
	}
	if req.OrcidID != nil && !utils.ValidateORCID(*req.OrcidID) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ORCID iD"})
		return
	}

	var existing int64
	config.DB.Model(&models.User{}).Where("email = ?", req.Email).Count(&existing)
	if existing > 0 {
		c.JSON(http.StatusConflict, gin.H{"error": "Email already registered"})
		return
	}

	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to hash password"})
		return
	}

	now := time.Now()
	user := models.User{
		UserFname:     utils.SanitizeInput(req.UserFname),
		UserLname:     utils.SanitizeInput(req.UserLname),
		Email:         req.Email,
		Password:      hashed,
		RoleID:        req.RoleID,
		Affiliation:   req.Affiliation,
		OrcidID:       req.OrcidID,
		AccountStatus: models.AccountStatusActive,
		CreateAt:      &now,
	}
	if err := config.DB.Create(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"user": user})
}

// AdminUpdateUser updates role, status or profile fields of an account.
func AdminUpdateUser(c *gin.Context) {
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	var req struct {
		RoleID        *int    `json:"role_id"`
		AccountStatus *string `json:"account_status"`
		UserFname     *string `json:"user_fname"`
		UserLname     *string `json:"user_lname"`
		Affiliation   *string `json:"affiliation"`
		OrcidID       *string `json:"orcid_id"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var user models.User
	if err := config.DB.Where("user_id = ? AND delete_at IS NULL", userID).First(&user).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	now := time.Now()
	updates := map[string]interface{}{"update_at": now}
	if req.RoleID != nil {
		updates["role_id"] = *req.RoleID
	}
	if req.AccountStatus != nil {
		switch *req.AccountStatus {
		case models.AccountStatusActive, models.AccountStatusInactive, models.AccountStatusSuspended:
			updates["account_status"] = *req.AccountStatus
		default:
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid account status"})
			return
		}
	}
	if req.UserFname != nil {
		updates["user_fname"] = utils.SanitizeInput(*req.UserFname)
	}
	if req.UserLname != nil {
		updates["user_lname"] = utils.SanitizeInput(*req.UserLname)
	}
	if req.Affiliation != nil {
		updates["affiliation"] = *req.Affiliation
	}
	if req.OrcidID != nil {
		if !utils.ValidateORCID(*req.OrcidID) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid ORCID iD"})
			return
		}
		updates["orcid_id"] = *req.OrcidID
	}

	if err := config.DB.Model(&user).Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update user"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User updated"})
}

// AdminDeleteUser soft-deletes an account.
func AdminDeleteUser(c *gin.Context) {
	userID, ok := parseIDParam(c, "id")
	if !ok {
		return
	}

	now := time.Now()
	result := config.DB.Model(&models.User{}).
		Where("user_id = ? AND delete_at IS NULL", userID).
		Update("delete_at", now)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete user"})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "User deleted"})
}

// AdminListSubmissions is the full submission listing with filters.
func AdminListSubmissions(c *gin.Context) {
	p := utils.ParsePagination(c, adminSubmissionSort, "created_at")

	query := config.DB.Model(&models.Submission{}).Preload("Author").Where("deleted_at IS NULL")
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if authorID := c.Query("author_id"); authorID != "" {
		query = query.Where("author_id = ?", authorID)
	}
	if title := c.Query("title"); title != "" {
		query = query.Where("title LIKE ?", "%"+title+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count submissions"})
		return
	}

	var submissions []models.Submission
	if err := query.Order(p.Order()).Limit(p.Limit).Offset(p.Offset()).Find(&submissions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch submissions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"submissions": submissions,
		"total":       total,
		"page":        p.Page,
		"limit":       p.Limit,
	})
}

// AdminListPayments lists payments across all submissions.
func AdminListPayments(c *gin.Context) {
	p := utils.ParsePagination(c, adminPaymentSort, "created_at")

	query := config.DB.Model(&models.Payment{}).Preload("Submission").Preload("Payer")
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}
	if submissionID := c.Query("submission_id"); submissionID != "" {
		query = query.Where("submission_id = ?", submissionID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count payments"})
		return
	}

	var payments []models.Payment
	if err := query.Order(p.Order()).Limit(p.Limit).Offset(p.Offset()).Find(&payments).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch payments"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"payments": payments,
		"total":    total,
		"page":     p.Page,
		"limit":    p.Limit,
	})
}

// AdminListReviews lists reviews with reviewer and submission context.
func AdminListReviews(c *gin.Context) {
	p := utils.ParsePagination(c, adminReviewSort, "invited_at")

	query := config.DB.Model(&models.Review{}).Preload("Reviewer").Preload("Submission")
	if status := c.Query("status"); status != "" {
		query = query.Where("review_status = ?", status)
	}
	if submissionID := c.Query("submission_id"); submissionID != "" {
		query = query.Where("submission_id = ?", submissionID)
	}
	if reviewerID := c.Query("reviewer_id"); reviewerID != "" {
		query = query.Where("reviewer_id = ?", reviewerID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count reviews"})
		return
	}

	var reviews []models.Review
	if err := query.Order(p.Order()).Limit(p.Limit).Offset(p.Offset()).Find(&reviews).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch reviews"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reviews": reviews,
		"total":   total,
		"page":    p.Page,
		"limit":   p.Limit,
	})
}

// AdminListComplaints lists complaints for the oversight dashboard.
func AdminListComplaints(c *gin.Context) {
	p := utils.ParsePagination(c, adminComplaintSort, "created_at")

	query := config.DB.Model(&models.Complaint{}).Preload("Complainant").Preload("Submission")
	if status := c.Query("status"); status != "" {
		query = query.Where("status = ?", status)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count complaints"})
		return
	}

	var complaints []models.Complaint
	if err := query.Order(p.Order()).Limit(p.Limit).Offset(p.Offset()).Find(&complaints).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch complaints"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"complaints": complaints,
		"total":      total,
		"page":       p.Page,
		"limit":      p.Limit,
	})
}
