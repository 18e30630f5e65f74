package http

import (
	"bytes"
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/suchimauz/appointment-board/internal/config"
	"github.com/suchimauz/appointment-board/internal/core/domain"
	"github.com/suchimauz/appointment-board/internal/core/ports/in"
	"github.com/suchimauz/appointment-board/internal/core/ports/out"
	"github.com/suchimauz/appointment-board/internal/core/services/board_service"
)

// NotificationSource отдает текущее уведомление баннера
type NotificationSource interface {
	Current() *domain.Notification
}

type BoardController struct {
	useCase       in.AppointmentBoardUseCase
	notifications NotificationSource
	exporter      out.ExporterPort
	cfg           *config.Config
}

func NewBoardController(
	useCase in.AppointmentBoardUseCase,
	notifications NotificationSource,
	exporter out.ExporterPort,
	cfg *config.Config,
) *BoardController {
	return &BoardController{
		useCase:       useCase,
		notifications: notifications,
		exporter:      exporter,
		cfg:           cfg,
	}
}

func (c *BoardController) RegisterRoutes(router *gin.Engine) {
	api := router.Group("/api/v1")
	api.Use(c.basicAuth())
	{
		api.GET("/board", c.getBoard)
		api.POST("/board/refresh", c.refresh)
		api.POST("/board/sort/:field", c.toggleSort)
		api.GET("/board/export", c.export)

		api.GET("/form", c.getForm)
		api.POST("/form/create", c.openCreate)
		api.POST("/form/toggle", c.toggleForm)
		api.POST("/form/cancel", c.cancelForm)
		api.POST("/form/edit/:id", c.openEdit)
		api.PUT("/form", c.updateDraft)
		api.POST("/form/submit", c.submit)

		api.DELETE("/appointments/:id", c.deleteAppointment)

		api.GET("/notification", c.getNotification)

		api.GET("/reference/patients", c.listPatients)
		api.GET("/reference/practitioners", c.listPractitioners)
	}
}

type BoardQuery struct {
	Patient      *string `form:"patient"`
	Practitioner *string `form:"practitioner"`
	Status       *string `form:"status"`
	Filter       *string `form:"filter"`
	Sort         *string `form:"sort"`
	Order        *string `form:"order"`
	Page         *int    `form:"page"`
}

func (c *BoardController) getBoard(ctx *gin.Context) {
	var query BoardQuery
	if err := ctx.ShouldBindQuery(&query); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	update, err := query.toUpdate()
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if update != nil {
		c.useCase.UpdateViewState(update)
	}

	ctx.JSON(http.StatusOK, c.useCase.View(ctx.Request.Context()))
}

// toUpdate проверяет параметры и возвращает изменение состояния представления.
// Изменение критериев возвращает на первую страницу, если страница не указана явно.
func (q BoardQuery) toUpdate() (func(state *domain.ViewState), error) {
	var (
		status      *domain.AppointmentStatus
		quickFilter *domain.QuickFilter
		sortField   *domain.SortField
		direction   *domain.SortDirection
	)

	if q.Status != nil && *q.Status != "" {
		parsed, err := domain.ParseAppointmentStatus(*q.Status)
		if err != nil {
			return nil, err
		}
		status = &parsed
	}

	if q.Filter != nil {
		parsed, ok := domain.ParseQuickFilter(*q.Filter)
		if !ok {
			return nil, fmt.Errorf("unknown filter %q", *q.Filter)
		}
		quickFilter = &parsed
	}

	if q.Sort != nil {
		parsed, ok := domain.ParseSortField(*q.Sort)
		if !ok {
			return nil, fmt.Errorf("unknown sort field %q", *q.Sort)
		}
		sortField = &parsed
	}

	if q.Order != nil {
		parsed := domain.SortDirection(*q.Order)
		if parsed != domain.SortAscending && parsed != domain.SortDescending {
			return nil, fmt.Errorf("unknown order %q", *q.Order)
		}
		direction = &parsed
	}

	criteriaChanged := q.Patient != nil || q.Practitioner != nil || q.Status != nil || quickFilter != nil
	if !criteriaChanged && sortField == nil && direction == nil && q.Page == nil {
		return nil, nil
	}

	return func(state *domain.ViewState) {
		if q.Patient != nil {
			state.Criteria.PatientText = *q.Patient
		}
		if q.Practitioner != nil {
			state.Criteria.PractitionerText = *q.Practitioner
		}
		if q.Status != nil {
			state.Criteria.StatusFilter = ""
			if status != nil {
				state.Criteria.StatusFilter = *status
			}
		}
		if quickFilter != nil {
			state.Criteria.QuickFilter = *quickFilter
		}
		if sortField != nil {
			state.Sort.Field = *sortField
		}
		if direction != nil {
			state.Sort.Direction = *direction
		}

		switch {
		case q.Page != nil:
			state.Page = *q.Page
		case criteriaChanged:
			state.Page = 1
		}
	}, nil
}

func (c *BoardController) refresh(ctx *gin.Context) {
	if err := c.useCase.Refresh(ctx.Request.Context()); err != nil {
		ctx.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	ctx.JSON(http.StatusOK, c.useCase.View(ctx.Request.Context()))
}

func (c *BoardController) toggleSort(ctx *gin.Context) {
	field, ok := domain.ParseSortField(ctx.Param("field"))
	if !ok {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid sort field"})
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"sort": c.useCase.ToggleSort(field)})
}

func (c *BoardController) export(ctx *gin.Context) {
	// Буферизуем, чтобы при ошибке не отдать клиенту половину файла
	var buf bytes.Buffer
	if err := c.useCase.Export(ctx.Request.Context(), &buf); err != nil {
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	ctx.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", c.exporter.FileName()))
	ctx.Data(http.StatusOK, c.exporter.ContentType(), buf.Bytes())
}

func (c *BoardController) getForm(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, c.useCase.Form())
}

func (c *BoardController) openCreate(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, c.useCase.OpenCreate())
}

func (c *BoardController) toggleForm(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, c.useCase.ToggleForm())
}

func (c *BoardController) cancelForm(ctx *gin.Context) {
	c.useCase.CancelForm()
	ctx.JSON(http.StatusOK, c.useCase.Form())
}

func (c *BoardController) openEdit(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid appointment ID format"})
		return
	}

	form, err := c.useCase.OpenEdit(id)
	if err != nil {
		c.respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, form)
}

func (c *BoardController) updateDraft(ctx *gin.Context) {
	var draft domain.Draft
	if err := ctx.ShouldBindJSON(&draft); err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	form, err := c.useCase.UpdateDraft(draft)
	if err != nil {
		c.respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, form)
}

// submit принимает черновик в теле запроса или, при пустом теле, отправляет текущий
func (c *BoardController) submit(ctx *gin.Context) {
	draft := c.useCase.Form().Draft
	if ctx.Request.ContentLength != 0 {
		if err := ctx.ShouldBindJSON(&draft); err != nil {
			ctx.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	if err := c.useCase.Submit(ctx.Request.Context(), draft); err != nil {
		c.respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, c.useCase.View(ctx.Request.Context()))
}

func (c *BoardController) deleteAppointment(ctx *gin.Context) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		ctx.JSON(http.StatusBadRequest, gin.H{"error": "Invalid appointment ID format"})
		return
	}

	confirmed, _ := strconv.ParseBool(ctx.Query("confirm"))
	confirm := out.ConfirmFunc(func(_ context.Context, _ string) (bool, error) {
		return confirmed, nil
	})

	if err := c.useCase.Delete(ctx.Request.Context(), id, confirm); err != nil {
		c.respondError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, c.useCase.View(ctx.Request.Context()))
}

func (c *BoardController) getNotification(ctx *gin.Context) {
	notification := c.notifications.Current()
	if notification == nil {
		ctx.Status(http.StatusNoContent)
		return
	}

	ctx.JSON(http.StatusOK, notification)
}

func (c *BoardController) listPatients(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"patients": c.useCase.Patients()})
}

func (c *BoardController) listPractitioners(ctx *gin.Context) {
	ctx.JSON(http.StatusOK, gin.H{"practitioners": c.useCase.Practitioners()})
}

func (c *BoardController) respondError(ctx *gin.Context, err error) {
	var (
		validationErr *board_service.ValidationError
		storeErr      *out.StoreError
	)

	switch {
	case errors.As(err, &validationErr):
		ctx.JSON(http.StatusUnprocessableEntity, gin.H{"error": validationErr.Reason})
	case errors.Is(err, board_service.ErrNotFound), errors.Is(err, out.ErrStoreNotFound):
		ctx.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, board_service.ErrFormClosed), errors.Is(err, board_service.ErrNotConfirmed):
		ctx.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.As(err, &storeErr):
		ctx.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		ctx.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

func (c *BoardController) basicAuth() gin.HandlerFunc {
	return func(ctx *gin.Context) {
		username, password, hasAuth := ctx.Request.BasicAuth()
		if !hasAuth || !c.isAllowedClient(username, password) {
			ctx.Header("WWW-Authenticate", "Basic realm=Authorization Required")
			ctx.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		ctx.Next()
	}
}

func (c *BoardController) isAllowedClient(username, password string) bool {
	allowed := false
	for _, client := range c.cfg.Auth.BasicClients {
		if subtle.ConstantTimeCompare([]byte(username), []byte(client.Username)) == 1 &&
			subtle.ConstantTimeCompare([]byte(password), []byte(client.Password)) == 1 {
			allowed = true
		}
	}
	return allowed
}
