package collection

import (
	"github.com/Root48/DataCollectionModule/internal/domain"
	"github.com/Root48/DataCollectionModule/pkg/observer"
)

// StatusObserver receives pipeline status updates.
type StatusObserver = observer.Observer[domain.CollectionStatus]

// StatusObserverFunc adapts a function into a StatusObserver.
type StatusObserverFunc = observer.ObserverFunc[domain.CollectionStatus]

// DeliveryObserver receives finalized delivery outcomes.
type DeliveryObserver = observer.Observer[domain.DeliveryRecord]

// DeliveryObserverFunc adapts a function into a DeliveryObserver.
type DeliveryObserverFunc = observer.ObserverFunc[domain.DeliveryRecord]
