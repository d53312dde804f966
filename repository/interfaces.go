package repository

import (
	"github.com/ourmemories/memoriesbackend/database"
	"github.com/ourmemories/memoriesbackend/models"
)

// UserRepositoryInterface defines the methods for user data operations
type UserRepositoryInterface interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
}

// AlbumRepositoryInterface defines the methods for album data operations
type AlbumRepositoryInterface interface {
	Create(album *models.Album) error
	GetByID(id uint) (*models.Album, error)
	List(filter database.AlbumFilter, access database.Access) ([]models.Album, error)
	ListWithCounts(filter database.AlbumFilter, access database.Access, hasVideo, hasImage string) ([]models.AlbumListing, error)
	Save(album *models.Album) error
	DeleteCascade(id uint) error
	ExistingIDs(ids []uint) (int, error)
}

// ImageRepositoryInterface defines the methods for image data operations
type ImageRepositoryInterface interface {
	Create(image *models.Image) error
	GetByID(id uint) (*models.Image, error)
	List(filter database.ImageFilter, access database.Access) ([]models.Image, error)
	ListByAlbum(albumID uint, includePrivate bool) ([]models.Image, error)
	ListTodayInPast(month int, day int, includePrivate bool) ([]models.Image, error)
	Save(image *models.Image) error
	Move(imageID, albumID uint) error
	Delete(id uint) error
	AddReaction(imageID uint, reaction string) (*models.Image, error)
	AddLoveNote(note *models.LoveNote) error
	CountByAlbumAndType(albumID uint, mediaType string) (int64, error)
	ExistingIDs(ids []uint) (int, error)
}

// AnniversaryRepositoryInterface defines the methods for anniversary data operations
type AnniversaryRepositoryInterface interface {
	Create(ann *models.Anniversary) error
	GetByID(id uint) (*models.Anniversary, error)
	List(filter database.AnniversaryFilter, access database.Access) ([]models.Anniversary, error)
	Save(ann *models.Anniversary) error
	ReplaceLinks(ann *models.Anniversary, images []models.Image, albums []models.Album) error
	Delete(id uint) error
}

// SiteSettingsRepositoryInterface defines the methods for the settings singleton
type SiteSettingsRepositoryInterface interface {
	Get() (*models.SiteSettings, error)
	Save(settings *models.SiteSettings) error
}
