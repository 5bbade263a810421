package tracker

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// Measurement represents an observed box center position, a 1x2 matrix
type Measurement []float32

// StateMean represents the x, y, vx, vy state vector, a 1x4 matrix
type StateMean []float32

// StateCov represents a 4x4 state covariance matrix
type StateCov struct {
	*mat.Dense
}

// KalmanFilter is a constant velocity filter over a bounding box center
// point.  The state vector is position and velocity (x, y, vx, vy) and the
// measurement is the detected center position (x, y)
type KalmanFilter struct {
	// posStd is the initial position standard deviation
	posStd float32
	// velStd is the initial velocity standard deviation
	velStd float32
	// motionMat is the 4x4 constant velocity motion model
	motionMat *mat.Dense
	// updateMat is the 2x4 projection from state to measurement space
	updateMat *mat.Dense
}

const (
	// processNoise is the per frame motion model variance
	processNoise = 1.0
	// measurementNoise is the detection center position variance
	measurementNoise = 1.0
)

// NewKalmanFilter initializes and returns a new KalmanFilter
func NewKalmanFilter(posStd, velStd float32) *KalmanFilter {

	ndim := 2
	dt := 1.0

	// identity motion matrix with dt terms linking position to velocity
	motionMat := mat.NewDense(4, 4, nil)

	for i := 0; i < 4; i++ {
		motionMat.Set(i, i, 1.0)
	}

	for i := 0; i < ndim; i++ {
		motionMat.Set(i, ndim+i, dt)
	}

	// updateMat projects the state onto the measured position components
	updateMat := mat.NewDense(2, 4, nil)

	for i := 0; i < 2; i++ {
		updateMat.Set(i, i, 1.0)
	}

	return &KalmanFilter{
		posStd:    posStd,
		velStd:    velStd,
		motionMat: motionMat,
		updateMat: updateMat,
	}
}

// Initiate initializes the state mean and covariance from the first
// measurement
func (kf *KalmanFilter) Initiate(mean StateMean, covariance *StateCov,
	measurement Measurement) {

	// position from the measurement, velocity components start at zero
	copy(mean[:2], measurement[:2])
	mean[2] = 0.0
	mean[3] = 0.0

	std := [4]float32{kf.posStd, kf.posStd, kf.velStd, kf.velStd}

	// set the diagonal elements of the covariance matrix to the variances
	for i := 0; i < 4; i++ {
		covariance.Set(i, i, float64(std[i]*std[i]))
	}
}

// Predict advances the state mean and covariance one frame using the
// constant velocity motion model
func (kf *KalmanFilter) Predict(mean StateMean, covariance *StateCov) {

	// convert the mean state vector to a matrix for multiplication
	meanMat := mat.NewDense(4, 1, nil)

	for i := 0; i < 4; i++ {
		meanMat.Set(i, 0, float64(mean[i]))
	}

	// predict the next state mean using the motion model
	meanMat.Mul(kf.motionMat, meanMat)

	for i := 0; i < 4; i++ {
		mean[i] = float32(meanMat.At(i, 0))
	}

	// predict the next state covariance and add the process noise
	cov := covariance.Dense
	cov.Mul(kf.motionMat, cov)
	cov.Mul(cov, kf.motionMat.T())

	for i := 0; i < 4; i++ {
		cov.Set(i, i, cov.At(i, i)+processNoise)
	}
}

// Update corrects the state mean and covariance with a new measurement
func (kf *KalmanFilter) Update(mean StateMean, covariance *StateCov,
	measurement Measurement) error {

	// project the state mean and covariance to measurement space
	projectedMean, projectedCov := kf.project(mean, covariance)

	// perform Cholesky factorization of the projected covariance matrix
	chol := mat.Cholesky{}

	if ok := chol.Factorize(projectedCov); !ok {
		return errors.New("failed to factorize projected covariance")
	}

	// compute the matrix B for Kalman gain calculation
	B := mat.NewDense(4, 2, nil)
	B.Mul(covariance.Dense, kf.updateMat.T())

	// compute the Kalman gain using the Cholesky factorization
	var kalmanGain mat.Dense
	err := chol.SolveTo(&kalmanGain, B.T())

	if err != nil {
		return fmt.Errorf("failed to compute kalman gain: %w", err)
	}

	// compute the innovation (measurement residual)
	innovation := make([]float64, 2)

	for i := 0; i < 2; i++ {
		innovation[i] = float64(measurement[i] - projectedMean[i])
	}

	// update the state mean with the innovation
	innovationVec := mat.NewVecDense(2, innovation)
	tmp := mat.NewVecDense(4, nil)
	tmp.MulVec(kalmanGain.T(), innovationVec)

	for i := 0; i < 4; i++ {
		mean[i] += float32(tmp.AtVec(i))
	}

	// update the state covariance
	temp := mat.NewDense(4, 2, nil)
	temp.Mul(kalmanGain.T(), projectedCov)

	temp2 := mat.NewDense(4, 4, nil)
	temp2.Mul(temp, &kalmanGain)

	newCov := mat.NewDense(4, 4, nil)
	newCov.Sub(covariance.Dense, temp2)

	covariance.Dense = newCov

	return nil
}

// project projects the state mean and covariance to measurement space
func (kf *KalmanFilter) project(mean StateMean,
	covariance *StateCov) (Measurement, *mat.SymDense) {

	// project the state mean to measurement space, the position components
	projectedMean := make(Measurement, 2)
	projectedMean[0] = mean[0]
	projectedMean[1] = mean[1]

	// project the state covariance to measurement space
	temp := mat.NewDense(2, 4, nil)
	temp.Mul(kf.updateMat, covariance.Dense)

	temp2 := mat.NewDense(2, 2, nil)
	temp2.Mul(temp, kf.updateMat.T())

	projectedCov := mat.NewSymDense(2, nil)

	for i := 0; i < 2; i++ {
		for j := 0; j < 2; j++ {
			projectedCov.SetSym(i, j, (temp2.At(i, j)+temp2.At(j, i))/2)
		}
	}

	// add the measurement noise to the diagonal
	for i := 0; i < 2; i++ {
		projectedCov.SetSym(i, i, projectedCov.At(i, i)+measurementNoise)
	}

	return projectedMean, projectedCov
}
