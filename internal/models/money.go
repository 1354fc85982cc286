package models

import "math"

// PlatformFeeRate — доля платформы от согласованной цены.
const PlatformFeeRate = 0.10

// DelayPenaltyPerDay — штраф за каждый день просрочки.
// Хранится в платеже как отдельное поле, оркестраторы его не начисляют.
const DelayPenaltyPerDay = 1000.0

// ComputeFees считает комиссию платформы и заработок фрилансера от цены.
// Единственная точка расчёта: используется при превью отклика, создании
// контракта и платёжной записи, чтобы округление нигде не разошлось.
// Инвариант: fee + earnings == price.
func ComputeFees(price float64) (platformFee, freelancerEarnings float64) {
	platformFee = math.Round(price * PlatformFeeRate)
	freelancerEarnings = price - platformFee
	return platformFee, freelancerEarnings
}
