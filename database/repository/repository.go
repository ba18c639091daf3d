package repository

import (
	bookingRepo "homestay/database/repository/booking"
	recordsRepo "homestay/database/repository/records"
	roomRepo "homestay/database/repository/room"
)

// Re-export the BookingRepository interface and constructors.
type BookingRepository = bookingRepo.BookingRepository

type BookingTransition = bookingRepo.Transition

var (
	NewMongoBookingRepo    = bookingRepo.NewMongoBookingRepo
	NewPostgresBookingRepo = bookingRepo.NewPostgresBookingRepo
	NewMemoryBookingRepo   = bookingRepo.NewMemoryBookingRepo
)

// Re-export the RoomRepository interface and constructors.
type RoomRepository = roomRepo.RoomRepository

var (
	NewMongoRoomRepo  = roomRepo.NewMongoRoomRepo
	NewMemoryRoomRepo = roomRepo.NewMemoryRoomRepo
)

// Re-export the ContentRecordRepository interface and constructors.
type ContentRecordRepository = recordsRepo.ContentRecordRepository

var (
	NewMongoRecordRepo  = recordsRepo.NewMongoRecordRepo
	NewMemoryRecordRepo = recordsRepo.NewMemoryRecordRepo
)
