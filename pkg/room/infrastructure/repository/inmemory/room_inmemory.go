package inmemory

import (
	"sync"

	"github.com/meetlink/signal-service/pkg/room/domain/entity"
)

type InMemoryRoomRepository struct {
	rooms *sync.Map
}

func NewInMemoryRoomRepository(rooms *sync.Map) *InMemoryRoomRepository {
	return &InMemoryRoomRepository{
		rooms: rooms,
	}
}

func (repo *InMemoryRoomRepository) GetRoomByID(roomID string) (*entity.Room, error) {
	rawRoom, ok := repo.rooms.Load(roomID)
	if !ok {
		return nil, entity.ErrRoomNotFound
	}

	room, ok := rawRoom.(*entity.Room)
	if !ok {
		return nil, entity.ErrRoomTypeCast
	}

	return room, nil
}

func (repo *InMemoryRoomRepository) LoadOrStore(newRoom *entity.Room) *entity.Room {
	roomIface, loaded := repo.rooms.LoadOrStore(newRoom.ID, newRoom)
	if loaded {
		return roomIface.(*entity.Room)
	}

	return newRoom
}

func (repo *InMemoryRoomRepository) DeleteRoom(roomID string) {
	repo.rooms.Delete(roomID)
}
