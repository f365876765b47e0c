package repository

import "github.com/meetlink/signal-service/pkg/room/domain/entity"

type RoomRepository interface {
	GetRoomByID(roomID string) (*entity.Room, error)
	LoadOrStore(room *entity.Room) *entity.Room
	DeleteRoom(roomID string)
}
