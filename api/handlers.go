package api

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/ZamarianPatrick/lazypig-care/domain"
	"github.com/ZamarianPatrick/lazypig-care/model"
	"github.com/ZamarianPatrick/lazypig-care/wizard"
)

func (r *Resolver) listPlants(c *gin.Context) {
	list, err := r.controller.Plants().ListPlants(c.Request.Context(), currentUser(c))
	if err != nil {
		r.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (r *Resolver) createPlant(c *gin.Context) {
	var input model.PlantInput
	if !r.bindJSON(c, &input) {
		return
	}

	plant, err := r.controller.Plants().CreatePlant(c.Request.Context(), currentUser(c), input)
	if err != nil {
		r.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, plant)
}

func (r *Resolver) getPlant(c *gin.Context) {
	id, ok := r.pathID(c)
	if !ok {
		return
	}

	plant, err := r.controller.Plants().GetPlant(c.Request.Context(), currentUser(c), id)
	if err != nil {
		r.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, plant)
}

func (r *Resolver) updatePlant(c *gin.Context) {
	id, ok := r.pathID(c)
	if !ok {
		return
	}

	var input model.PlantInput
	if !r.bindJSON(c, &input) {
		return
	}

	plant, err := r.controller.Plants().UpdatePlant(c.Request.Context(), currentUser(c), id, input)
	if err != nil {
		r.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, plant)
}

func (r *Resolver) deletePlant(c *gin.Context) {
	id, ok := r.pathID(c)
	if !ok {
		return
	}

	if err := r.controller.Plants().DeletePlant(c.Request.Context(), currentUser(c), id); err != nil {
		r.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (r *Resolver) waterPlant(c *gin.Context) {
	id, ok := r.pathID(c)
	if !ok {
		return
	}

	// The body is optional; without one the watering happened now.
	var input model.WateringInput
	if !r.bindOptionalJSON(c, &input) {
		return
	}

	event, err := r.controller.Watering().RecordWatering(c.Request.Context(), id, currentUser(c), input.WateredAt)
	if err != nil {
		r.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, event)
}

func (r *Resolver) listWaterings(c *gin.Context) {
	id, ok := r.pathID(c)
	if !ok {
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "0"))
	if err != nil || limit < 0 {
		r.respondError(c, domain.NewFieldError("limit", "must be a non-negative number"))
		return
	}

	events, err := r.controller.Watering().History(c.Request.Context(), id, currentUser(c), limit)
	if err != nil {
		r.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, events)
}

func (r *Resolver) listRooms(c *gin.Context) {
	rooms, err := r.controller.Plants().ListRooms(c.Request.Context(), currentUser(c))
	if err != nil {
		r.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, rooms)
}

func (r *Resolver) createRoom(c *gin.Context) {
	var input model.RoomInput
	if !r.bindJSON(c, &input) {
		return
	}

	room, err := r.controller.Plants().CreateRoom(c.Request.Context(), currentUser(c), input)
	if err != nil {
		r.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, room)
}

func (r *Resolver) renameRoom(c *gin.Context) {
	id, ok := r.pathID(c)
	if !ok {
		return
	}

	var input model.RoomInput
	if !r.bindJSON(c, &input) {
		return
	}

	room, err := r.controller.Plants().RenameRoom(c.Request.Context(), currentUser(c), id, input)
	if err != nil {
		r.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, room)
}

func (r *Resolver) deleteRoom(c *gin.Context) {
	id, ok := r.pathID(c)
	if !ok {
		return
	}

	if err := r.controller.Plants().DeleteRoom(c.Request.Context(), currentUser(c), id); err != nil {
		r.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (r *Resolver) notifications(c *gin.Context) {
	list := r.controller.Notifications().ListPlantsNeedingWater(c.Request.Context(), currentUser(c))
	c.JSON(http.StatusOK, list)
}

func (r *Resolver) dashboard(c *gin.Context) {
	summary := r.controller.Notifications().Summary(c.Request.Context(), currentUser(c))
	c.JSON(http.StatusOK, summary)
}

func (r *Resolver) usage(c *gin.Context) {
	usage, err := r.controller.Quota().Usage(c.Request.Context(), currentUser(c))
	if err != nil {
		r.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, usage)
}

func (r *Resolver) createPlantWithWizard(c *gin.Context) {
	file, err := c.FormFile("photo")
	if err != nil {
		r.respondError(c, domain.NewFieldError("photo", "is required"))
		return
	}
	if file.Size > wizard.MaxPhotoBytes {
		r.respondError(c, domain.NewFieldError("photo", "must be at most 10 MB"))
		return
	}

	f, err := file.Open()
	if err != nil {
		r.respondError(c, domain.NewFieldError("photo", "could not be read"))
		return
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, wizard.MaxPhotoBytes+1))
	if err != nil {
		r.respondError(c, domain.NewFieldError("photo", "could not be read"))
		return
	}

	input := wizard.Input{
		Photo: wizard.Image{
			Data:        data,
			ContentType: http.DetectContentType(data),
		},
		Name: c.PostForm("name"),
	}

	if raw := c.PostForm("roomID"); raw != "" {
		roomID, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			r.respondError(c, domain.NewFieldError("roomID", "must be a number"))
			return
		}
		input.RoomID = &roomID
	}

	plant, err := r.controller.Wizard().CreatePlant(c.Request.Context(), currentUser(c), input)
	if err != nil {
		r.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, plant)
}

func (r *Resolver) pathID(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		r.respondError(c, domain.NewFieldError("id", "must be a positive number"))
		return 0, false
	}
	return id, true
}

func (r *Resolver) bindJSON(c *gin.Context, v any) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		msg := "must be valid JSON"
		if errors.Is(err, io.EOF) {
			msg = "is required"
		}
		r.respondError(c, domain.NewFieldError("body", msg))
		return false
	}
	return true
}

// bindOptionalJSON accepts an empty body, whatever its framing.
func (r *Resolver) bindOptionalJSON(c *gin.Context, v any) bool {
	if err := c.ShouldBindJSON(v); err != nil && !errors.Is(err, io.EOF) {
		r.respondError(c, domain.NewFieldError("body", "must be valid JSON"))
		return false
	}
	return true
}
