package controllers

import (
	"fmt"
	"io"
	"log"

	"github.com/gin-gonic/gin"

	"github.com/maxmaindev/citizen-appeals/entity"
	"github.com/maxmaindev/citizen-appeals/pkg/querycache"
	"github.com/maxmaindev/citizen-appeals/pkg/resp"
	"github.com/maxmaindev/citizen-appeals/pkg/storage"
	"github.com/maxmaindev/citizen-appeals/repository"
	"github.com/maxmaindev/citizen-appeals/utils"
)

type PhotoController struct {
	Photos       *repository.PhotoRepository
	Appeals      *repository.AppealRepository
	UserServices *repository.UserServiceRepository
	Store        storage.Storage
	MaxFileSize  int64
	Cache        *querycache.Cache[any]
}

func NewPhotoController(
	photos *repository.PhotoRepository,
	appeals *repository.AppealRepository,
	userServices *repository.UserServiceRepository,
	store storage.Storage,
	maxFileSize int64,
	cache *querycache.Cache[any],
) *PhotoController {
	return &PhotoController{
		Photos:       photos,
		Appeals:      appeals,
		UserServices: userServices,
		Store:        store,
		MaxFileSize:  maxFileSize,
		Cache:        cache,
	}
}

// POST /appeals/:id/photos
// ?result=true marks executor result photos. Citizens may add initial photos
// to their own appeals only; executors may add result photos to appeals of
// their services; dispatchers and admins may add either kind anywhere.
func (ctl *PhotoController) Upload(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	a, err := ctl.Appeals.FindByID(id)
	if err != nil {
		resp.NotFound(c, "appeal not found")
		return
	}

	isResult := c.Query("result") == "true"
	if !ctl.canUpload(c, a, isResult) {
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		resp.BadRequest(c, err.Error())
		return
	}
	files := form.File["photos"]
	if len(files) == 0 {
		resp.BadRequest(c, "no photos in request")
		return
	}

	existing, err := ctl.Photos.CountForAppeal(id, isResult)
	if err != nil {
		resp.ServerError(c, err)
		return
	}
	if existing+int64(len(files)) > storage.MaxPhotosPerAppeal {
		resp.BadRequest(c, fmt.Sprintf("at most %d photos per appeal", storage.MaxPhotosPerAppeal))
		return
	}

	for _, fh := range files {
		if err := storage.ValidateUpload(fh, ctl.MaxFileSize); err != nil {
			resp.BadRequest(c, err.Error())
			return
		}
	}

	saved := make([]entity.Photo, 0, len(files))
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			resp.ServerError(c, err)
			return
		}

		objectName := storage.NewObjectName(fh.Filename)
		err = ctl.Store.Save(c.Request.Context(), objectName, f, fh.Size, fh.Header.Get("Content-Type"))
		f.Close()
		if err != nil {
			resp.ServerError(c, err)
			return
		}

		p := entity.Photo{
			AppealID:      &a.ID,
			FilePath:      objectName,
			FileName:      fh.Filename,
			FileSize:      fh.Size,
			MimeType:      fh.Header.Get("Content-Type"),
			IsResultPhoto: isResult,
		}
		if err := ctl.Photos.Create(&p); err != nil {
			resp.ServerError(c, err)
			return
		}
		saved = append(saved, p)
	}

	ctl.Cache.InvalidateFor("photo.upload")
	resp.Created(c, saved)
}

// GET /photos/:id
func (ctl *PhotoController) Get(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	p, err := ctl.Photos.FindByID(id)
	if err != nil {
		resp.NotFound(c, "photo not found")
		return
	}

	r, err := ctl.Store.Open(c.Request.Context(), p.FilePath)
	if err != nil {
		resp.NotFound(c, "photo file missing")
		return
	}
	defer r.Close()

	c.Header("Content-Type", p.MimeType)
	c.Header("Content-Disposition", fmt.Sprintf("inline; filename=%q", p.FileName))
	if _, err := io.Copy(c.Writer, r); err != nil {
		log.Printf("stream photo %d: %v", p.ID, err)
	}
}

// DELETE /photos/:id
func (ctl *PhotoController) Delete(c *gin.Context) {
	id, ok := paramID(c)
	if !ok {
		return
	}
	p, err := ctl.Photos.FindByID(id)
	if err != nil {
		resp.NotFound(c, "photo not found")
		return
	}

	role := utils.CurrentRole(c)
	if role == entity.RoleCitizen {
		if p.AppealID == nil {
			resp.Forbidden(c, "cannot delete this photo")
			return
		}
		a, err := ctl.Appeals.FindByID(*p.AppealID)
		if err != nil || a.UserID != utils.CurrentUserID(c) || p.IsResultPhoto {
			resp.Forbidden(c, "cannot delete this photo")
			return
		}
	}

	if err := ctl.Store.Delete(c.Request.Context(), p.FilePath); err != nil {
		log.Printf("delete photo blob %d: %v", p.ID, err)
	}
	if err := ctl.Photos.Delete(id); err != nil {
		resp.ServerError(c, err)
		return
	}
	ctl.Cache.InvalidateFor("photo.delete")
	resp.OK(c, gin.H{"deleted": id})
}

func (ctl *PhotoController) canUpload(c *gin.Context, a *entity.Appeal, isResult bool) bool {
	role := utils.CurrentRole(c)
	userID := utils.CurrentUserID(c)

	switch role {
	case entity.RoleDispatcher, entity.RoleAdmin:
		return true
	case entity.RoleCitizen:
		if a.UserID != userID {
			resp.Forbidden(c, "not your appeal")
			return false
		}
		if isResult {
			resp.Forbidden(c, "citizens cannot upload result photos")
			return false
		}
		return true
	case entity.RoleExecutor:
		if !isResult {
			resp.Forbidden(c, "executors upload result photos only")
			return false
		}
		if a.ServiceID == nil {
			resp.Forbidden(c, "appeal is not assigned to your service")
			return false
		}
		svcs, err := ctl.UserServices.ServicesForUser(userID)
		if err != nil {
			resp.ServerError(c, err)
			return false
		}
		for _, s := range svcs {
			if s.ID == *a.ServiceID {
				return true
			}
		}
		resp.Forbidden(c, "appeal is not assigned to your service")
		return false
	default:
		resp.Forbidden(c, "forbidden")
		return false
	}
}
