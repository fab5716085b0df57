package controllers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/ibrhimmese/garage/models"
	"github.com/ibrhimmese/garage/utils"
)

// VehicleController serves the listing page and the three mutating vehicle
// operations. Every mutation ends in a redirect back to the listing.
type VehicleController struct {
	db        *gorm.DB
	uploadDir string
}

// NewVehicleController creates a VehicleController writing uploads to uploadDir.
func NewVehicleController(db *gorm.DB, uploadDir string) *VehicleController {
	return &VehicleController{db: db, uploadDir: uploadDir}
}

// Index renders all vehicles, newest first.
func (v *VehicleController) Index(ctx *gin.Context) {
	var vehicles []models.Vehicle
	if err := v.db.Order("created_at DESC").Find(&vehicles).Error; err != nil {
		utils.Sugar.Errorf("list vehicles: %v", err)
		ctx.String(http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	ctx.HTML(http.StatusOK, "index.html", gin.H{"Vehicles": vehicles})
}

// Create inserts one vehicle from the submitted form, with the image path
// set only when a file accompanied the request.
func (v *VehicleController) Create(ctx *gin.Context) {
	upload, err := utils.SaveImage(ctx, "image", v.uploadDir)
	if err != nil {
		utils.Sugar.Errorf("store vehicle image: %v", err)
		ctx.String(http.StatusInternalServerError, "Error adding vehicle")
		return
	}

	vehicle := models.Vehicle{
		Brand:          ctx.PostForm("brand"),
		Model:          ctx.PostForm("model"),
		TechnicalSpecs: ctx.PostForm("technical_specs"),
	}
	if upload.Attached {
		vehicle.ImagePath = upload.Path
	}

	if err := v.db.Create(&vehicle).Error; err != nil {
		utils.Sugar.Errorf("create vehicle: %v", err)
		ctx.String(http.StatusInternalServerError, "Error adding vehicle")
		return
	}

	ctx.Redirect(http.StatusFound, "/")
}

// Update rewrites the text fields of the vehicle at :id. The stored image
// path changes only when the form carried a replacement file; an edit
// without one must leave the existing image untouched.
func (v *VehicleController) Update(ctx *gin.Context) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		ctx.String(http.StatusInternalServerError, "Error updating vehicle")
		return
	}

	upload, err := utils.SaveImage(ctx, "image", v.uploadDir)
	if err != nil {
		utils.Sugar.Errorf("store vehicle image: %v", err)
		ctx.String(http.StatusInternalServerError, "Error updating vehicle")
		return
	}

	updates := map[string]interface{}{
		"brand":           ctx.PostForm("brand"),
		"model":           ctx.PostForm("model"),
		"technical_specs": ctx.PostForm("technical_specs"),
	}
	if upload.Attached {
		updates["image_path"] = upload.Path
	}

	if err := v.db.Model(&models.Vehicle{}).Where("id = ?", id).Updates(updates).Error; err != nil {
		utils.Sugar.Errorf("update vehicle %d: %v", id, err)
		ctx.String(http.StatusInternalServerError, "Error updating vehicle")
		return
	}

	ctx.Redirect(http.StatusFound, "/")
}

// Delete removes the vehicle at :id. An id matching no row still redirects;
// only a store failure is an error.
func (v *VehicleController) Delete(ctx *gin.Context) {
	id, err := strconv.Atoi(ctx.Param("id"))
	if err != nil {
		ctx.String(http.StatusInternalServerError, "Error deleting vehicle")
		return
	}

	if err := v.db.Where("id = ?", id).Delete(&models.Vehicle{}).Error; err != nil {
		utils.Sugar.Errorf("delete vehicle %d: %v", id, err)
		ctx.String(http.StatusInternalServerError, "Error deleting vehicle")
		return
	}

	ctx.Redirect(http.StatusFound, "/")
}
